package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/service"
)

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body %q: %v", w.Body.String(), err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := do(t, r, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestStationHandlers_ConfigAndCRUD(t *testing.T) {
	st := &mockStations{cfg: irrigation.DefaultConfig(2)}
	r := newTestRouter(&service.Service{Stations: st})

	w := do(t, r, http.MethodGet, "/config")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /config status=%d body=%s", w.Code, w.Body.String())
	}
	var cfg irrigation.Config
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if len(cfg.Stations) != 2 || cfg.Stations[1].Programs[1].Duration.Std() != 30*time.Minute {
		t.Fatalf("unexpected config: %+v", cfg.Stations)
	}

	w = do(t, r, http.MethodPost, "/config/station")
	if w.Code != http.StatusCreated {
		t.Fatalf("POST station status=%d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/status/station/3" {
		t.Fatalf("Location=%q", loc)
	}

	w = do(t, r, http.MethodGet, "/config/station/3")
	if w.Code != http.StatusOK {
		t.Fatalf("GET station status=%d", w.Code)
	}

	w = do(t, r, http.MethodDelete, "/config/station/3")
	if w.Code != http.StatusNoContent || len(st.deleted) != 1 || st.deleted[0] != 3 {
		t.Fatalf("DELETE station status=%d deleted=%v", w.Code, st.deleted)
	}

	w = do(t, r, http.MethodGet, "/config/station/3")
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted station should be 404, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg == "" {
		t.Fatalf("missing error message")
	}

	w = do(t, r, http.MethodGet, "/config/station/abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id should be 400, got %d", w.Code)
	}
}

func TestStationHandlers_Settings(t *testing.T) {
	st := &mockStations{cfg: irrigation.DefaultConfig(1)}
	r := newTestRouter(&service.Service{Stations: st})

	w := do(t, r, http.MethodPut, "/config/station/1/description?desc=front%20lawn")
	if w.Code != http.StatusOK || st.lastDesc != "front lawn" {
		t.Fatalf("description status=%d desc=%q", w.Code, st.lastDesc)
	}
	var got irrigation.Station
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.Description != "front lawn" {
		t.Fatalf("response station %+v, err %v", got, err)
	}

	if w := do(t, r, http.MethodPut, "/config/station/1/description"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing desc should be 400, got %d", w.Code)
	}

	if w := do(t, r, http.MethodPut, "/config/station/1/name?name=roses"); w.Code != http.StatusOK || st.lastName != "roses" {
		t.Fatalf("name status=%d name=%q", w.Code, st.lastName)
	}

	if w := do(t, r, http.MethodPut, "/config/station/1/enable"); w.Code != http.StatusOK || !*st.lastEnabled {
		t.Fatalf("enable status=%d", w.Code)
	}
	if w := do(t, r, http.MethodPut, "/config/station/1/disable"); w.Code != http.StatusOK || *st.lastEnabled {
		t.Fatalf("disable status=%d", w.Code)
	}
	if w := do(t, r, http.MethodPut, "/config/station/7/enable"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown station should be 404, got %d", w.Code)
	}
}

func TestStationHandlers_Override(t *testing.T) {
	st := &mockStations{cfg: irrigation.DefaultConfig(1)}
	r := newTestRouter(&service.Service{Stations: st})

	w := do(t, r, http.MethodPut, "/config/station/1/override?start_time=2025-04-06T09:00:00Z&duration=PT30M&override_type=off&enabled=false")
	if w.Code != http.StatusOK {
		t.Fatalf("override status=%d body=%s", w.Code, w.Body.String())
	}
	p := st.lastOverride
	if !p.StartTime.Equal(time.Date(2025, 4, 6, 9, 0, 0, 0, time.UTC)) || p.Duration != 30*time.Minute ||
		p.Type != irrigation.OverrideOff || p.Enabled {
		t.Fatalf("unexpected override params: %+v", p)
	}

	before := time.Now()
	w = do(t, r, http.MethodPut, "/config/station/1/override?duration=45m&override_type=on")
	if w.Code != http.StatusOK {
		t.Fatalf("override with defaults status=%d body=%s", w.Code, w.Body.String())
	}
	if st.lastOverride.StartTime.Before(before) || !st.lastOverride.Enabled {
		t.Fatalf("start should default to now and enabled to true: %+v", st.lastOverride)
	}

	bad := []string{
		"/config/station/1/override?duration=PT30M&override_type=sideways",
		"/config/station/1/override?duration=soon&override_type=on",
		"/config/station/1/override?override_type=on",
		"/config/station/1/override?duration=PT30M&override_type=on&enabled=maybe",
		"/config/station/1/override?duration=PT30M&override_type=on&start_time=yesterday",
		"/config/station/1/override?duration=PT0S&override_type=on",
	}
	for _, u := range bad {
		if w := do(t, r, http.MethodPut, u); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", u, w.Code)
		}
	}

	if w := do(t, r, http.MethodDelete, "/config/station/1/override"); w.Code != http.StatusOK || st.cleared != 1 {
		t.Fatalf("clear override status=%d cleared=%d", w.Code, st.cleared)
	}
}

func TestStationHandlers_InternalErrorHidesDetails(t *testing.T) {
	st := &mockStations{cfg: irrigation.DefaultConfig(1), err: errors.New("disk on fire")}
	r := newTestRouter(&service.Service{Stations: st})

	w := do(t, r, http.MethodPost, "/config/station")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != errUpdateStation {
		t.Fatalf("error body = %q, want %q", msg, errUpdateStation)
	}
}
