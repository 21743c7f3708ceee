package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Madrid (40.4168, -3.7038) to Barcelona (41.3851, 2.1734) ~ 500-510 km
	d := HaversineKm(40.4168, -3.7038, 41.3851, 2.1734)
	if d < 480 || d > 530 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmZero(t *testing.T) {
	if d := HaversineKm(40.0, -3.0, 40.0, -3.0); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}
