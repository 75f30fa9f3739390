// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bobishh/quitter/pkg/service/mock"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

const trackersPath = "/api/devices/device-1/trackers"

func TestTrackers_CreateAndList(t *testing.T) {
	store := mock.NewTrackerStore(nil)
	r := newTestRouter(store, newTestCatalog(t, true))

	start := time.Unix(testStart, 500).UTC()
	w := doJSON(t, r, http.MethodPost, trackersPath, map[string]interface{}{
		"habit":    "beer",
		"start":    start,
		"rate":     "2",
		"userName": "Anon",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, expected %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created trackerView
	decodeBody(t, w, &created)
	a, ok := created.Tracker.Abstinence()
	if !ok {
		t.Fatalf("created tracker kind = %s, expected abstinence", created.Tracker.Kind())
	}
	if a.StartDate.Unix() != testStart || a.StartDate.Nanosecond() != 0 {
		t.Errorf("StartDate = %v, expected whole second %d", a.StartDate, testStart)
	}
	if a.UnitsPerDay != 2 {
		t.Errorf("UnitsPerDay = %v, expected 2", a.UnitsPerDay)
	}

	w = doRequest(r, http.MethodGet, trackersPath, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, expected %d", w.Code, http.StatusOK)
	}
	var views []trackerView
	decodeBody(t, w, &views)
	if len(views) != 1 || views[0].Tracker.ID != created.Tracker.ID {
		t.Fatalf("GET returned %+v, expected the created tracker", views)
	}
	if views[0].Metric == nil || *views[0].Metric != 4 {
		t.Errorf("Metric = %v, expected 4", views[0].Metric)
	}
}

func TestTrackers_CreateDefaultsRate(t *testing.T) {
	store := mock.NewTrackerStore(nil)
	r := newTestRouter(store, newTestCatalog(t, true))

	w := doJSON(t, r, http.MethodPost, trackersPath, map[string]interface{}{"habit": "beer", "rate": "lots"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, expected %d", w.Code, http.StatusCreated)
	}
	var created trackerView
	decodeBody(t, w, &created)
	if a, _ := created.Tracker.Abstinence(); a.UnitsPerDay != sharing.DefaultUnitsPerDay {
		t.Errorf("UnitsPerDay = %v, expected %v", a.UnitsPerDay, sharing.DefaultUnitsPerDay)
	}
}

func TestTrackers_CreateRejections(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{name: "missing habit", body: map[string]interface{}{"rate": "1"}, wantStatus: http.StatusBadRequest},
		{name: "unknown habit", body: map[string]interface{}{"habit": "chess"}, wantStatus: http.StatusNotFound},
		{name: "unknown kind", body: map[string]interface{}{"habit": "beer", "kind": "streak"}, wantStatus: http.StatusBadRequest},
		{name: "unknown theme", body: map[string]interface{}{"habit": "beer", "themeId": uuid.New()}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewTrackerStore(nil)
			r := newTestRouter(store, newTestCatalog(t, true))

			w := doJSON(t, r, http.MethodPost, trackersPath, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
			if store.Writes() != 0 {
				t.Errorf("store writes = %d, expected 0", store.Writes())
			}
		})
	}
}

func TestTrackers_Share(t *testing.T) {
	existing := abstinenceTracker(testStart, 2, &limitedTheme.ID)
	usage := tracker.Tracker{ID: uuid.New(), HabitID: beerHabit.ID, Type: tracker.Usage{}}
	store := mock.NewTrackerStore(map[string][]tracker.Tracker{"device-1": {existing, usage}})
	r := newTestRouter(store, newTestCatalog(t, true))

	w := doRequest(r, http.MethodGet, trackersPath+"/"+existing.ID.String()+"/share", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		URL string `json:"url"`
	}
	decodeBody(t, w, &body)
	if !strings.HasPrefix(body.URL, "https://quitter.example/beer#") {
		t.Errorf("url = %s, expected beer share link", body.URL)
	}
	slug, state, err := sharing.DecodeShareURL(body.URL)
	if err != nil || slug != "beer" {
		t.Fatalf("DecodeShareURL() = %s, %v", slug, err)
	}
	if state.StartTimestamp != testStart || state.UnitsPerDay != 2 || state.ThemeID == nil || *state.ThemeID != limitedTheme.ID.String() {
		t.Errorf("shared state = %+v", state)
	}

	if w := doRequest(r, http.MethodGet, trackersPath+"/"+usage.ID.String()+"/share", "", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("usage share status = %d, expected %d", w.Code, http.StatusUnprocessableEntity)
	}
	if w := doRequest(r, http.MethodGet, trackersPath+"/"+uuid.NewString()+"/share", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing share status = %d, expected %d", w.Code, http.StatusNotFound)
	}
	if w := doRequest(r, http.MethodGet, trackersPath+"/not-a-uuid/share", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id share status = %d, expected %d", w.Code, http.StatusBadRequest)
	}
}

func TestTrackers_LogEvent(t *testing.T) {
	usage := tracker.Tracker{ID: uuid.New(), HabitID: beerHabit.ID, Type: tracker.Usage{Events: []time.Time{}}}
	abstinence := abstinenceTracker(testStart, 1, nil)
	store := mock.NewTrackerStore(map[string][]tracker.Tracker{"device-1": {usage, abstinence}})
	r := newTestRouter(store, newTestCatalog(t, true))

	w := doRequest(r, http.MethodPost, trackersPath+"/"+usage.ID.String()+"/events", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var view trackerView
	decodeBody(t, w, &view)
	u, ok := view.Tracker.Type.(tracker.Usage)
	if !ok || len(u.Events) != 1 || !u.Events[0].Equal(testNow) {
		t.Errorf("events = %+v, expected one event at %v", view.Tracker.Type, testNow)
	}

	w = doRequest(r, http.MethodPost, trackersPath+"/"+abstinence.ID.String()+"/events", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("abstinence event status = %d, expected %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestTrackers_Delete(t *testing.T) {
	existing := abstinenceTracker(testStart, 1, nil)
	store := mock.NewTrackerStore(map[string][]tracker.Tracker{"device-1": {existing}})
	r := newTestRouter(store, newTestCatalog(t, true))

	path := trackersPath + "/" + existing.ID.String()
	if w := doRequest(r, http.MethodDelete, path, "", nil); w.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, expected %d", w.Code, http.StatusNoContent)
	}
	if w := doRequest(r, http.MethodDelete, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}
