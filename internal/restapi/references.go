package restapi

import (
	"mrt6.timetable.org/internal/models"
)

// lineStations lists the line's stations in order, with coordinates when the
// line configuration has them
func (api *RestAPI) lineStations() []models.Station {
	names := api.Line.Stations()
	stations := make([]models.Station, len(names))
	for i, name := range names {
		stations[i] = models.Station{Name: name, Position: i}
		if api.LineConfig == nil {
			continue
		}
		if sc, ok := api.LineConfig.Station(name); ok {
			stations[i].Lat = sc.Lat
			stations[i].Lon = sc.Lon
		}
	}
	return stations
}

func (api *RestAPI) variantRefs() []models.Variant {
	keys := api.Schedules.Variants()
	refs := make([]models.Variant, len(keys))
	for i, key := range keys {
		refs[i] = models.Variant{Key: key, Name: api.VariantName(key)}
	}
	return refs
}

// buildReferences returns the named stations and the variant in use
func (api *RestAPI) buildReferences(variant string, stationNames ...string) models.ReferencesModel {
	refs := models.NewEmptyReferences()
	if variant != "" {
		refs.Variants = append(refs.Variants, models.Variant{Key: variant, Name: api.VariantName(variant)})
	}
	if len(stationNames) == 0 {
		return refs
	}
	for _, s := range api.lineStations() {
		for _, name := range stationNames {
			if s.Name == name {
				refs.Stations = append(refs.Stations, s)
				break
			}
		}
	}
	return refs
}
