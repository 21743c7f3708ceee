package shareroute

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses cannot be left once entered unless the service runs with
// the permissive status policy.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

type RouteInfo struct {
	Origin               *Place    `json:"origin"`
	Destination          *Place    `json:"destination"`
	EstimatedDurationMin float64   `json:"estimated_duration_minutes"`
	EstimatedDistanceKm  float64   `json:"estimated_distance_km"`
	StartTime            time.Time `json:"start_time"`
	EstimatedArrival     time.Time `json:"estimated_arrival"`
}

// LocationPoint is the freshest known position of the driver.
type LocationPoint struct {
	Coordinates Coordinates `json:"coordinates"`
	Timestamp   time.Time   `json:"timestamp"`
	SpeedKmh    float64     `json:"speed_kmh"`
	HeadingDeg  float64     `json:"heading_deg"`
}

// HistoryPoint is one trajectory sample; heading is not retained in history.
type HistoryPoint struct {
	Coordinates Coordinates `json:"coordinates"`
	Timestamp   time.Time   `json:"timestamp"`
	SpeedKmh    float64     `json:"speed_kmh"`
}

type AllowedViewer struct {
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

type Privacy struct {
	ShowExactLocation bool            `json:"show_exact_location"`
	ShowSpeed         bool            `json:"show_speed"`
	ShowETA           bool            `json:"show_eta"`
	PublicAccess      bool            `json:"public_access"`
	AllowedViewers    []AllowedViewer `json:"allowed_viewers"`
}

type VehicleInfo struct {
	LicensePlate string `json:"license_plate,omitempty"`
	Model        string `json:"model,omitempty"`
	Company      string `json:"company,omitempty"`
}

type UpdateSettings struct {
	FrequencySeconds int       `json:"frequency_seconds"`
	LastUpdateAt     time.Time `json:"last_update_at"`
}

type Stats struct {
	TotalViews    int64      `json:"total_views"`
	UniqueViewers int64      `json:"unique_viewers"`
	LastViewedAt  *time.Time `json:"last_viewed_at,omitempty"`
}

type SharedRoute struct {
	ShareID         string         `json:"share_id"`
	OwnerID         string         `json:"owner_id"`
	RouteInfo       RouteInfo      `json:"route_info"`
	Status          Status         `json:"status"`
	Privacy         Privacy        `json:"privacy"`
	VehicleInfo     VehicleInfo    `json:"vehicle_info"`
	CurrentLocation *LocationPoint `json:"current_location,omitempty"`
	LocationHistory []HistoryPoint `json:"location_history"`
	UpdateSettings  UpdateSettings `json:"update_settings"`
	Stats           Stats          `json:"stats"`
	CreatedAt       time.Time      `json:"created_at"`
	ExpiresAt       time.Time      `json:"expires_at"`
}

// PrivacyInput carries privacy fields as pointers so absent fields keep their
// defaults on create and their current values on patch.
type PrivacyInput struct {
	ShowExactLocation *bool            `json:"show_exact_location"`
	ShowSpeed         *bool            `json:"show_speed"`
	ShowETA           *bool            `json:"show_eta"`
	PublicAccess      *bool            `json:"public_access"`
	AllowedViewers    *[]AllowedViewer `json:"allowed_viewers"`
}

type UpdateSettingsInput struct {
	FrequencySeconds int `json:"frequency_seconds"`
}

type CreateInput struct {
	RouteInfo      RouteInfo            `json:"route_info"`
	Privacy        *PrivacyInput        `json:"privacy"`
	VehicleInfo    VehicleInfo          `json:"vehicle_info"`
	UpdateSettings *UpdateSettingsInput `json:"update_settings"`
}

// LocationUpdate is one position sample pushed by the owner.
type LocationUpdate struct {
	Coordinates *Coordinates `json:"coordinates"`
	SpeedKmh    float64      `json:"speed_kmh"`
	HeadingDeg  float64      `json:"heading_deg"`
}
