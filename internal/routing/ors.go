package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ORSClient calls an OpenRouteService-compatible driving-hgv endpoint.
type ORSClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

func NewORSClient(url, apiKey string) *ORSClient {
	return &ORSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
		apiKey:     apiKey,
	}
}

type orsRequest struct {
	Coordinates [][]float64    `json:"coordinates"`
	Options     map[string]any `json:"options,omitempty"`
}

type orsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

func (c *ORSClient) CalculateTruckRoute(ctx context.Context, origin, destination Coordinates, truck TruckParams) (Estimate, error) {
	truck.applyDefaults()

	body, err := json.Marshal(orsRequest{
		Coordinates: [][]float64{{origin.Lng, origin.Lat}, {destination.Lng, destination.Lat}},
		Options: map[string]any{
			"profile_params": map[string]any{
				"restrictions": map[string]any{
					"height": truck.HeightM,
					"width":  truck.WidthM,
					"length": truck.LengthM,
					"weight": truck.WeightT,
					"axleload": truck.AxleCount,
				},
			},
		},
	})
	if err != nil {
		return Estimate{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Estimate{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Estimate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Estimate{}, fmt.Errorf("routing provider returned status %d", resp.StatusCode)
	}

	var parsed orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Estimate{}, err
	}
	if len(parsed.Routes) == 0 {
		return Estimate{}, errors.New("no route found")
	}

	route := parsed.Routes[0]
	return Estimate{
		DistanceKm:      route.Summary.Distance / 1000,
		DurationMinutes: route.Summary.Duration / 60,
		Geometry:        route.Geometry,
	}, nil
}
