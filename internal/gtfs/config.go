package gtfs

import "strings"

// Config names the static feed journey legs are read from
type Config struct {
	Source  string
	RouteID string
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.Source, "http://") && !strings.HasPrefix(config.Source, "https://")
}
