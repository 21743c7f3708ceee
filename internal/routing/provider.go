package routing

import "context"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TruckParams are the vehicle restrictions applied to route calculation.
// Zero values fall back to a typical articulated truck.
type TruckParams struct {
	HeightM   float64 `json:"height_m"`
	WidthM    float64 `json:"width_m"`
	LengthM   float64 `json:"length_m"`
	WeightT   float64 `json:"weight_t"`
	AxleCount int     `json:"axle_count"`
}

type Estimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Geometry        string  `json:"geometry,omitempty"`
}

// Provider computes truck routes. The production implementation calls
// OpenRouteService; tests substitute their own.
type Provider interface {
	CalculateTruckRoute(ctx context.Context, origin, destination Coordinates, truck TruckParams) (Estimate, error)
}

func (p *TruckParams) applyDefaults() {
	if p.HeightM <= 0 {
		p.HeightM = 4.2
	}
	if p.WidthM <= 0 {
		p.WidthM = 2.5
	}
	if p.LengthM <= 0 {
		p.LengthM = 16.5
	}
	if p.WeightT <= 0 {
		p.WeightT = 40
	}
	if p.AxleCount <= 0 {
		p.AxleCount = 5
	}
}
