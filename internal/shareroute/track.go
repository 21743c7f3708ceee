package shareroute

import "time"

// maxHistory bounds the trajectory buffer per shared route.
const maxHistory = 50

// applyLocation is the in-memory model of what Service.UpdateLocation does in
// a single SQL statement: replace the current location, append to the history
// dropping the oldest samples beyond the cap, and bump the freshness
// timestamp. Production traffic goes through the SQL path; tests use this to
// pin the replace/append/trim semantics the statement must preserve.
func applyLocation(r *SharedRoute, upd LocationUpdate, now time.Time) error {
	if err := validateUpdate(upd); err != nil {
		return err
	}

	r.CurrentLocation = &LocationPoint{
		Coordinates: *upd.Coordinates,
		Timestamp:   now,
		SpeedKmh:    upd.SpeedKmh,
		HeadingDeg:  upd.HeadingDeg,
	}

	r.LocationHistory = append(r.LocationHistory, HistoryPoint{
		Coordinates: *upd.Coordinates,
		Timestamp:   now,
		SpeedKmh:    upd.SpeedKmh,
	})
	if n := len(r.LocationHistory); n > maxHistory {
		r.LocationHistory = r.LocationHistory[n-maxHistory:]
	}

	r.UpdateSettings.LastUpdateAt = now
	return nil
}

func validateUpdate(upd LocationUpdate) error {
	if upd.Coordinates == nil {
		return ErrInvalidCoordinates
	}
	return validateCoordinates(*upd.Coordinates)
}

func validateCoordinates(c Coordinates) error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
