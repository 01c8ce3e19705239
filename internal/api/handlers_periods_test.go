package api

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPeriodRoutesRequireOnboarding(t *testing.T) {
	app, _ := newTestApp(t)
	registered := registerUser(t, app, "owner@example.com")

	for _, path := range []string{"/api/periods", "/api/periods/active", "/api/stats/symptoms"} {
		response := doJSON(t, app, http.MethodGet, path, registered.Token, nil)
		expectStatus(t, response, http.StatusForbidden)
		if message := readAPIError(t, response); message != "onboarding required" {
			t.Fatalf("%s: expected onboarding required, got %q", path, message)
		}
	}

	catalog := doJSON(t, app, http.MethodGet, "/api/symptoms", registered.Token, nil)
	expectStatus(t, catalog, http.StatusOK)
}

func TestOnboardingStoresOngoingPeriod(t *testing.T) {
	app, _ := newTestApp(t)
	registered := registerUser(t, app, "owner@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/onboarding/complete", registered.Token, map[string]any{
		"last_period_start": "2026-05-02",
		"period_length":     5,
	})
	expectStatus(t, response, http.StatusOK)

	again := doJSON(t, app, http.MethodPost, "/api/onboarding/complete", registered.Token, map[string]any{})
	expectStatus(t, again, http.StatusConflict)

	active := doJSON(t, app, http.MethodGet, "/api/periods/active", registered.Token, nil)
	expectStatus(t, active, http.StatusOK)
	preview := struct {
		Period    periodResponse `json:"period"`
		Persisted bool           `json:"persisted"`
	}{}
	decodeBody(t, active, &preview)
	if !preview.Persisted || preview.Period.ID == 0 {
		t.Fatalf("expected onboarding period to be active, got %#v", preview)
	}
	if !preview.Period.StartDate.Equal(time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", preview.Period.StartDate)
	}
}

func TestOnboardingRejectsOutOfRangeStart(t *testing.T) {
	app, _ := newTestApp(t)
	registered := registerUser(t, app, "owner@example.com")

	for _, payload := range []map[string]any{
		{"last_period_start": "2026-05-05"},
		{"last_period_start": "2026-01-01"},
		{"last_period_start": "05/01/2026"},
		{"last_period_start": "2026-05-01", "period_length": 20},
	} {
		response := doJSON(t, app, http.MethodPost, "/api/onboarding/complete", registered.Token, payload)
		expectStatus(t, response, http.StatusBadRequest)
	}
}

func TestAttachSymptomsCreatesThenMerges(t *testing.T) {
	app, _ := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	preview := doJSON(t, app, http.MethodGet, "/api/periods/active", token, nil)
	expectStatus(t, preview, http.StatusOK)
	previewBody := struct {
		Period    periodResponse `json:"period"`
		Persisted bool           `json:"persisted"`
	}{}
	decodeBody(t, preview, &previewBody)
	if previewBody.Persisted || previewBody.Period.Flow != "Light" {
		t.Fatalf("expected unsaved Light preview, got %#v", previewBody)
	}

	first := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Cramps"},
	})
	expectStatus(t, first, http.StatusOK)
	created := periodResponse{}
	decodeBody(t, first, &created)
	if created.ID == 0 || !created.StartDate.Equal(testNow) {
		t.Fatalf("unexpected created period %#v", created)
	}

	second := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Bloating", "Cramps", " Bloating "},
	})
	expectStatus(t, second, http.StatusOK)
	merged := periodResponse{}
	decodeBody(t, second, &merged)
	if merged.ID != created.ID {
		t.Fatalf("expected merge into %d, got %d", created.ID, merged.ID)
	}
	if diff := cmp.Diff([]string{"Cramps", "Bloating"}, merged.Symptoms); diff != "" {
		t.Fatalf("symptoms mismatch (-want +got):\n%s", diff)
	}

	listing := doJSON(t, app, http.MethodGet, "/api/periods", token, nil)
	expectStatus(t, listing, http.StatusOK)
	records := []periodResponse{}
	decodeBody(t, listing, &records)
	if len(records) != 1 {
		t.Fatalf("expected one stored period, got %d", len(records))
	}
}

func TestAttachSymptomsRejectsEmptySelection(t *testing.T) {
	app, _ := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"  "},
	})
	expectStatus(t, response, http.StatusBadRequest)
	if message := readAPIError(t, response); message != "no symptoms selected" {
		t.Fatalf("expected no symptoms selected, got %q", message)
	}

	listing := doJSON(t, app, http.MethodGet, "/api/periods", token, nil)
	records := []periodResponse{}
	decodeBody(t, listing, &records)
	if len(records) != 0 {
		t.Fatalf("expected nothing stored, got %d records", len(records))
	}
}

func TestUpdatePeriodAndRemoveSymptom(t *testing.T) {
	app, _ := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	attached := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Mood swings"},
	})
	expectStatus(t, attached, http.StatusOK)
	record := periodResponse{}
	decodeBody(t, attached, &record)
	path := "/api/periods/" + itoa(record.ID)

	updated := doJSON(t, app, http.MethodPatch, path, token, map[string]any{
		"flow":     "Heavy",
		"end_date": "2026-05-06",
	})
	expectStatus(t, updated, http.StatusOK)
	closed := periodResponse{}
	decodeBody(t, updated, &closed)
	wantEnd := time.Date(2026, time.May, 6, 23, 59, 59, 999999999, time.UTC)
	if closed.Flow != "Heavy" || closed.EndDate == nil || !closed.EndDate.Equal(wantEnd) {
		t.Fatalf("unexpected updated period %#v", closed)
	}

	badDate := doJSON(t, app, http.MethodPatch, path, token, map[string]any{"end_date": "2026-05-01"})
	expectStatus(t, badDate, http.StatusBadRequest)
	malformed := doJSON(t, app, http.MethodPatch, path, token, map[string]any{"end_date": "6 May"})
	expectStatus(t, malformed, http.StatusBadRequest)
	empty := doJSON(t, app, http.MethodPatch, path, token, map[string]any{})
	expectStatus(t, empty, http.StatusBadRequest)
	missing := doJSON(t, app, http.MethodPatch, "/api/periods/9999", token, map[string]any{"flow": "Medium"})
	expectStatus(t, missing, http.StatusNotFound)

	removed := doJSON(t, app, http.MethodDelete, path+"/symptoms/Mood%20swings", token, nil)
	expectStatus(t, removed, http.StatusOK)
	cleared := periodResponse{}
	decodeBody(t, removed, &cleared)
	if len(cleared.Symptoms) != 0 {
		t.Fatalf("expected symptoms cleared, got %#v", cleared.Symptoms)
	}
}

func TestPeriodsAreScopedToOwner(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken := onboardedToken(t, app, "owner@example.com")
	otherToken := onboardedToken(t, app, "other@example.com")

	attached := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", ownerToken, map[string]any{
		"symptoms": []string{"Cramps"},
	})
	record := periodResponse{}
	decodeBody(t, attached, &record)

	foreign := doJSON(t, app, http.MethodPatch, "/api/periods/"+itoa(record.ID), otherToken, map[string]any{"flow": "Heavy"})
	expectStatus(t, foreign, http.StatusNotFound)

	stats := doJSON(t, app, http.MethodGet, "/api/stats/symptoms", otherToken, nil)
	expectStatus(t, stats, http.StatusOK)
	body := statsResponse{}
	decodeBody(t, stats, &body)
	if len(body.Symptoms) != 0 || body.TotalPeriods != 0 {
		t.Fatalf("expected no stats for other user, got %#v", body)
	}
}

func TestListPeriodsValidatesLimit(t *testing.T) {
	app, _ := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	for _, limit := range []string{"0", "-2", "abc", "101"} {
		response := doJSON(t, app, http.MethodGet, "/api/periods?limit="+limit, token, nil)
		expectStatus(t, response, http.StatusBadRequest)
	}
	expectStatus(t, doJSON(t, app, http.MethodGet, "/api/periods?limit=100", token, nil), http.StatusOK)
}

func TestSymptomStatsCountsPeriods(t *testing.T) {
	app, _ := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Cramps", "Acne"},
	})

	response := doJSON(t, app, http.MethodGet, "/api/stats/symptoms", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := statsResponse{}
	decodeBody(t, response, &body)
	frequencies := body.Symptoms
	if len(frequencies) != 2 || frequencies[0].Name != "Acne" || frequencies[0].TotalPeriods != 1 {
		t.Fatalf("unexpected frequencies %#v", frequencies)
	}
	if body.TotalPeriods != 1 || len(body.UnreadablePeriodIDs) != 0 {
		t.Fatalf("unexpected totals %#v", body)
	}
}

func TestAttachSymptomsReportsSaveFailure(t *testing.T) {
	app, database := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	first := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Cramps"},
	})
	expectStatus(t, first, http.StatusOK)

	if err := database.Exec(`
CREATE TRIGGER reject_period_updates BEFORE UPDATE ON period_records
BEGIN
  SELECT RAISE(ABORT, 'store unavailable');
END;`).Error; err != nil {
		t.Fatalf("create failing trigger: %v", err)
	}

	second := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Bloating"},
	})
	expectStatus(t, second, http.StatusInternalServerError)
	if message := readAPIError(t, second); message != "save failed" {
		t.Fatalf("expected save failed, got %q", message)
	}

	listing := doJSON(t, app, http.MethodGet, "/api/periods", token, nil)
	expectStatus(t, listing, http.StatusOK)
	records := []periodResponse{}
	decodeBody(t, listing, &records)
	if len(records) != 1 {
		t.Fatalf("expected one stored period, got %d", len(records))
	}
	if diff := cmp.Diff([]string{"Cramps"}, records[0].Symptoms); diff != "" {
		t.Fatalf("stored symptoms changed after failed save (-want +got):\n%s", diff)
	}
}

func TestUnreadableSymptomsDoNotBlockPeriodRoutes(t *testing.T) {
	app, database := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	attached := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Cramps"},
	})
	expectStatus(t, attached, http.StatusOK)
	record := periodResponse{}
	decodeBody(t, attached, &record)
	if err := database.Exec(`UPDATE period_records SET symptoms = X'0900' WHERE id = ?`, record.ID).Error; err != nil {
		t.Fatalf("plant unreadable symptoms: %v", err)
	}
	path := "/api/periods/" + itoa(record.ID)

	listing := doJSON(t, app, http.MethodGet, "/api/periods", token, nil)
	expectStatus(t, listing, http.StatusOK)
	records := []periodResponse{}
	decodeBody(t, listing, &records)
	if len(records) != 1 || records[0].SymptomsError == "" || len(records[0].Symptoms) != 0 {
		t.Fatalf("expected listed record to report unreadable symptoms, got %#v", records)
	}

	active := doJSON(t, app, http.MethodGet, "/api/periods/active", token, nil)
	expectStatus(t, active, http.StatusOK)

	stats := doJSON(t, app, http.MethodGet, "/api/stats/symptoms", token, nil)
	expectStatus(t, stats, http.StatusOK)
	statsBody := statsResponse{}
	decodeBody(t, stats, &statsBody)
	if diff := cmp.Diff([]uint{record.ID}, statsBody.UnreadablePeriodIDs); diff != "" {
		t.Fatalf("unreadable ids mismatch (-want +got):\n%s", diff)
	}

	export := doJSON(t, app, http.MethodGet, "/api/export/csv", token, nil)
	expectStatus(t, export, http.StatusOK)
	raw, err := io.ReadAll(export.Body)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(raw), "symptoms unreadable") {
		t.Fatalf("expected export to note unreadable symptoms, got %s", raw)
	}

	updated := doJSON(t, app, http.MethodPatch, path, token, map[string]any{"flow": "Heavy"})
	expectStatus(t, updated, http.StatusOK)

	cleared := doJSON(t, app, http.MethodDelete, path+"/symptoms", token, nil)
	expectStatus(t, cleared, http.StatusOK)
	clearedBody := periodResponse{}
	decodeBody(t, cleared, &clearedBody)
	if clearedBody.SymptomsError != "" || clearedBody.Flow != "Heavy" {
		t.Fatalf("expected repaired record, got %#v", clearedBody)
	}

	again := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Headache"},
	})
	expectStatus(t, again, http.StatusOK)
	merged := periodResponse{}
	decodeBody(t, again, &merged)
	if merged.ID != record.ID {
		t.Fatalf("expected save into %d, got %d", record.ID, merged.ID)
	}
	if diff := cmp.Diff([]string{"Headache"}, merged.Symptoms); diff != "" {
		t.Fatalf("symptoms mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachSymptomsReplacesUnreadableValue(t *testing.T) {
	app, database := newTestApp(t)
	token := onboardedToken(t, app, "owner@example.com")

	attached := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Cramps"},
	})
	record := periodResponse{}
	decodeBody(t, attached, &record)
	if err := database.Exec(`UPDATE period_records SET symptoms = X'0900' WHERE id = ?`, record.ID).Error; err != nil {
		t.Fatalf("plant unreadable symptoms: %v", err)
	}

	response := doJSON(t, app, http.MethodPost, "/api/periods/active/symptoms", token, map[string]any{
		"symptoms": []string{"Bloating"},
	})
	expectStatus(t, response, http.StatusOK)
	replaced := periodResponse{}
	decodeBody(t, response, &replaced)
	if replaced.ID != record.ID || replaced.SymptomsError != "" {
		t.Fatalf("expected record %d to be repaired, got %#v", record.ID, replaced)
	}
	if diff := cmp.Diff([]string{"Bloating"}, replaced.Symptoms); diff != "" {
		t.Fatalf("symptoms mismatch (-want +got):\n%s", diff)
	}
}
