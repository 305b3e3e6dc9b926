package webui

import (
	"mrt6.timetable.org/internal/app"
)

// WebUI serves the debug pages of the query service
type WebUI struct {
	*app.Application
}

// New creates the debug UI over a running application
func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}
