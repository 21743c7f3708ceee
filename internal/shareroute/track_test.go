package shareroute

import (
	"errors"
	"testing"
	"time"
)

func TestApplyLocationReplacesAndAppends(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	r := testRoute(now)

	upd := LocationUpdate{
		Coordinates: &Coordinates{Lat: 40.5, Lng: -3.5},
		SpeedKmh:    85,
		HeadingDeg:  45,
	}
	if err := applyLocation(&r, upd, now.Add(time.Minute)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if r.CurrentLocation == nil {
		t.Fatalf("expected current location set")
	}
	if r.CurrentLocation.HeadingDeg != 45 || r.CurrentLocation.SpeedKmh != 85 {
		t.Fatalf("unexpected current location %+v", r.CurrentLocation)
	}
	if len(r.LocationHistory) != 1 {
		t.Fatalf("expected one history sample, got %d", len(r.LocationHistory))
	}
	if r.LocationHistory[0].SpeedKmh != 85 {
		t.Fatalf("history sample should carry speed")
	}
	if !r.UpdateSettings.LastUpdateAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("freshness timestamp not bumped")
	}
}

func TestApplyLocationTrimsHistoryToNewestFifty(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	r := testRoute(now)

	for i := 0; i < 60; i++ {
		upd := LocationUpdate{
			Coordinates: &Coordinates{Lat: 40.0 + float64(i)*0.01, Lng: -3.0},
			SpeedKmh:    float64(i),
		}
		if err := applyLocation(&r, upd, now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	if len(r.LocationHistory) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(r.LocationHistory))
	}
	// Oldest ten dropped, order preserved.
	if r.LocationHistory[0].SpeedKmh != 10 {
		t.Fatalf("expected oldest surviving sample to be #10, got speed %v", r.LocationHistory[0].SpeedKmh)
	}
	if r.LocationHistory[49].SpeedKmh != 59 {
		t.Fatalf("expected newest sample last, got speed %v", r.LocationHistory[49].SpeedKmh)
	}
	for i := 1; i < len(r.LocationHistory); i++ {
		if !r.LocationHistory[i].Timestamp.After(r.LocationHistory[i-1].Timestamp) {
			t.Fatalf("history out of order at %d", i)
		}
	}
}

func TestApplyLocationValidation(t *testing.T) {
	now := time.Now()
	r := testRoute(now)

	cases := []LocationUpdate{
		{},
		{Coordinates: &Coordinates{Lat: 91, Lng: 0}},
		{Coordinates: &Coordinates{Lat: -91, Lng: 0}},
		{Coordinates: &Coordinates{Lat: 0, Lng: 181}},
		{Coordinates: &Coordinates{Lat: 0, Lng: -181}},
	}
	for i, upd := range cases {
		if err := applyLocation(&r, upd, now); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("case %d: expected invalid coordinates, got %v", i, err)
		}
	}
	if len(r.LocationHistory) != 0 {
		t.Fatalf("rejected updates must not touch history")
	}
}

func TestApplyLocationAcceptsBoundaryCoordinates(t *testing.T) {
	now := time.Now()
	r := testRoute(now)

	for _, c := range []Coordinates{{90, 180}, {-90, -180}, {0, 0}} {
		c := c
		if err := applyLocation(&r, LocationUpdate{Coordinates: &c}, now); err != nil {
			t.Fatalf("boundary %+v rejected: %v", c, err)
		}
	}
}
