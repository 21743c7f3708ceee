package vehicle

import "time"

type Vehicle struct {
	ID                    string    `json:"id"`
	OwnerID               string    `json:"owner_id"`
	Name                  string    `json:"name"`
	Type                  string    `json:"type"` // truck, trailer, semi_trailer
	HeightM               float64   `json:"height_m"`
	WidthM                float64   `json:"width_m"`
	LengthM               float64   `json:"length_m"`
	WeightT               float64   `json:"weight_t"`
	AxleCount             int       `json:"axle_count"`
	HazardousMaterials    bool      `json:"hazardous_materials"`
	HazardousMaterialType string    `json:"hazardous_material_type,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}
