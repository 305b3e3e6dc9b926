package models

// ReferencesModel carries the stations and variants an entry refers to
type ReferencesModel struct {
	Stations []Station `json:"stations"`
	Variants []Variant `json:"variants"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Stations: []Station{},
		Variants: []Variant{},
	}
}
