package shareroute

import (
	"strings"
	"time"
)

// CanView reports whether a requester identified by contact (email or phone,
// possibly empty) may see the route. Email matching is case-insensitive,
// phone matching is exact.
func CanView(r *SharedRoute, contact string) bool {
	if r.Privacy.PublicAccess {
		return true
	}
	if contact == "" {
		return false
	}
	for _, v := range r.Privacy.AllowedViewers {
		if v.Email != "" && strings.EqualFold(v.Email, contact) {
			return true
		}
		if v.Phone != "" && v.Phone == contact {
			return true
		}
	}
	return false
}

type Driver struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

type ViewPrivacy struct {
	ShowExactLocation bool `json:"show_exact_location"`
	ShowSpeed         bool `json:"show_speed"`
	ShowETA           bool `json:"show_eta"`
}

// View is the viewer-facing projection of a shared route. Redacted fields are
// omitted entirely, so consumers must not assume their presence.
type View struct {
	ShareID         string         `json:"share_id"`
	RouteInfo       RouteInfo      `json:"route_info"`
	Status          Status         `json:"status"`
	VehicleInfo     VehicleInfo    `json:"vehicle_info"`
	Driver          *Driver        `json:"driver,omitempty"`
	Privacy         ViewPrivacy    `json:"privacy"`
	LastUpdateAt    time.Time      `json:"last_update"`
	CurrentLocation *LocationPoint `json:"current_location,omitempty"`
	LocationHistory []HistoryPoint `json:"location_history,omitempty"`
}

// Project filters a route through its privacy configuration.
func Project(r *SharedRoute, driver *Driver) View {
	view := View{
		ShareID:     r.ShareID,
		RouteInfo:   r.RouteInfo,
		Status:      r.Status,
		VehicleInfo: r.VehicleInfo,
		Driver:      driver,
		Privacy: ViewPrivacy{
			ShowExactLocation: r.Privacy.ShowExactLocation,
			ShowSpeed:         r.Privacy.ShowSpeed,
			ShowETA:           r.Privacy.ShowETA,
		},
		LastUpdateAt: r.UpdateSettings.LastUpdateAt,
	}

	if r.Privacy.ShowExactLocation {
		view.CurrentLocation = r.CurrentLocation
		view.LocationHistory = r.LocationHistory
	}
	return view
}
