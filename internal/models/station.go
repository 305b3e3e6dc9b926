package models

// Station is a stop on the line, in line order
type Station struct {
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// Variant names a schedule variant
type Variant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Bounds is the box around the line's stations
type Bounds struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	LatSpan float64 `json:"latSpan"`
	LonSpan float64 `json:"lonSpan"`
}

// LineEntry describes the line served by the API
type LineEntry struct {
	Name     string    `json:"name"`
	Timezone string    `json:"timezone"`
	Stations []Station `json:"stations"`
	Polyline string    `json:"polyline"`
	Bounds   Bounds    `json:"bounds"`
}

// RegionBounds computes the center and span of the stations with coordinates
func RegionBounds(stations []Station) Bounds {
	var minLat, maxLat, minLon, maxLon float64
	first := true
	for _, s := range stations {
		if s.Lat == nil || s.Lon == nil {
			continue
		}
		lat, lon := *s.Lat, *s.Lon
		if first {
			minLat, maxLat, minLon, maxLon = lat, lat, lon, lon
			first = false
			continue
		}
		if lat < minLat {
			minLat = lat
		}
		if lat > maxLat {
			maxLat = lat
		}
		if lon < minLon {
			minLon = lon
		}
		if lon > maxLon {
			maxLon = lon
		}
	}

	return Bounds{
		Lat:     (minLat + maxLat) / 2,
		Lon:     (minLon + maxLon) / 2,
		LatSpan: maxLat - minLat,
		LonSpan: maxLon - minLon,
	}
}
