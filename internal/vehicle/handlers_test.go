package vehicle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func testApp(t *testing.T, mock pgxmock.PgxPoolIface) *fiber.App {
	t.Helper()
	app := fiber.New()
	withOwner := func(c *fiber.Ctx) error {
		c.Locals("user_id", "owner-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/vehicles"), NewService(mock), withOwner)
	return app
}

func TestCreateVehicleHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO vehicles`).
		WithArgs(pgxmock.AnyArg(), "owner-1", "Big Red", "truck", 4.0, 2.5, 16.5, 40.0, 2, false, "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := testApp(t, mock)

	body, _ := json.Marshal(Vehicle{Name: "Big Red", HeightM: 4.0, WidthM: 2.5, LengthM: 16.5, WeightT: 40.0})
	req := httptest.NewRequest(http.MethodPost, "/vehicles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var v Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.OwnerID != "owner-1" || v.Type != "truck" {
		t.Fatalf("unexpected vehicle %+v", v)
	}
}

func TestCreateVehicleHandlerRejectsMissingDimensions(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := testApp(t, mock)

	body, _ := json.Marshal(Vehicle{Name: "No Dims"})
	req := httptest.NewRequest(http.MethodPost, "/vehicles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetVehicleHandlerNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, owner_id, name, type, height_m, width_m, length_m, weight_t, axle_count, hazardous_materials`).
		WithArgs("veh-404", "owner-1").
		WillReturnError(errVehicle)

	app := testApp(t, mock)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/vehicles/veh-404", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteVehicleHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM vehicles`).
		WithArgs("veh-1", "owner-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := testApp(t, mock)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/vehicles/veh-1", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}
