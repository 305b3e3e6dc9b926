package restapi

import (
	"net/http"

	"github.com/twpayne/go-polyline"

	"mrt6.timetable.org/internal/models"
)

func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	stations := api.lineStations()

	var coords [][]float64
	for _, s := range stations {
		if s.Lat != nil && s.Lon != nil {
			coords = append(coords, []float64{*s.Lat, *s.Lon})
		}
	}

	var encoded string
	if len(coords) > 1 {
		encoded = string(polyline.EncodeCoords(coords))
	}

	timezone := ""
	if api.Location != nil {
		timezone = api.Location.String()
	}

	entry := models.LineEntry{
		Name:     api.Line.Name,
		Timezone: timezone,
		Stations: stations,
		Polyline: encoded,
		Bounds:   models.RegionBounds(stations),
	}

	refs := models.NewEmptyReferences()
	refs.Variants = api.variantRefs()
	api.sendResponse(w, r, models.NewEntryResponse(entry, refs))
}

func (api *RestAPI) variantsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.variantRefs(), models.NewEmptyReferences()))
}
