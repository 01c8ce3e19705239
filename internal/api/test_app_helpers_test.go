package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowlog/internal/db"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "flowlog-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, testSecretKey, time.UTC, nil)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeBody(t, response, &payload)
	return payload["error"]
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, raw)
	}
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID                  uint   `json:"id"`
		Email               string `json:"email"`
		OnboardingCompleted bool   `json:"onboarding_completed"`
		MustChangePassword  bool   `json:"must_change_password"`
	} `json:"user"`
}

func registerUser(t *testing.T, app *fiber.App, email string) authResponse {
	t.Helper()
	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "StrongPass1",
	})
	expectStatus(t, response, http.StatusCreated)

	result := authResponse{}
	decodeBody(t, response, &result)
	if result.Token == "" {
		t.Fatal("expected token in register response")
	}
	return result
}

// onboardedToken registers a user and completes onboarding without an
// initial period.
func onboardedToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	registered := registerUser(t, app, email)
	response := doJSON(t, app, http.MethodPost, "/api/onboarding/complete", registered.Token, map[string]any{})
	expectStatus(t, response, http.StatusOK)
	return registered.Token
}

type periodResponse struct {
	ID            uint       `json:"id"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Flow          string     `json:"flow"`
	Symptoms      []string   `json:"symptoms"`
	SymptomsError string     `json:"symptoms_error"`
}

type statsResponse struct {
	Symptoms []struct {
		Name         string `json:"name"`
		Count        int    `json:"count"`
		TotalPeriods int    `json:"total_periods"`
	} `json:"symptoms"`
	TotalPeriods        int    `json:"total_periods"`
	UnreadablePeriodIDs []uint `json:"unreadable_period_ids"`
}

func itoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
