// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bobishh/quitter/pkg/reconcile"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/service/mock"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/go-redis/redis/v8"
)

const sharedPath = "/api/devices/device-1/shared"

func shareLink(slug string, state sharing.TrackerState) string {
	return sharing.ShareURL("https://quitter.example", slug, state)
}

func TestShared_CreateNew(t *testing.T) {
	store := mock.NewTrackerStore(nil)
	r := newTestRouter(store, newTestCatalog(t, true))

	state := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 2, UserName: "Anon"}
	w := doJSON(t, r, http.MethodPost, sharedPath, map[string]string{"url": shareLink("beer", state)})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp sharedLinkResponse
	decodeBody(t, w, &resp)
	if resp.Decision != reconcile.DecisionCreateNew {
		t.Errorf("Decision = %s, expected %s", resp.Decision, reconcile.DecisionCreateNew)
	}
	if len(store.CreateCalls) != 1 || store.CreateCalls[0].Tracker.ID.String() != resp.TrackerID {
		t.Errorf("CreateCalls = %+v, expected one create of %s", store.CreateCalls, resp.TrackerID)
	}
	if resp.Tracker.Metric == nil || *resp.Tracker.Metric != 4 {
		t.Errorf("Metric = %v, expected 4", resp.Tracker.Metric)
	}
}

func TestShared_StartOutsideCalendarYears(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := service.NewRedisTrackerStore(client, service.RedisTrackerStoreConfig{})
	r := newTestRouter(store, newTestCatalog(t, true))

	for _, start := range []int64{253402300800, math.MaxInt64, math.MinInt64} {
		state := sharing.TrackerState{StartTimestamp: start, UnitsPerDay: 1, UserName: "Anon"}
		body := map[string]string{"url": shareLink("beer", state)}

		w := doJSON(t, r, http.MethodPost, sharedPath, body)
		if w.Code != http.StatusOK {
			t.Fatalf("start %d: status = %d, expected %d: %s", start, w.Code, http.StatusOK, w.Body.String())
		}
		var resp sharedLinkResponse
		decodeBody(t, w, &resp)
		if resp.Decision != reconcile.DecisionCreateNew {
			t.Errorf("start %d: Decision = %s, expected %s", start, resp.Decision, reconcile.DecisionCreateNew)
		}
		if a, _ := resp.Tracker.Tracker.Abstinence(); a.StartDate.Unix() != start {
			t.Errorf("start %d: returned start = %d", start, a.StartDate.Unix())
		}

		w = doJSON(t, r, http.MethodPost, sharedPath, body)
		decodeBody(t, w, &resp)
		if resp.Decision != reconcile.DecisionUseExisting {
			t.Errorf("start %d: second Decision = %s, expected %s", start, resp.Decision, reconcile.DecisionUseExisting)
		}
	}

	trackers, err := store.List(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(trackers) != 3 {
		t.Errorf("stored %d trackers, expected 3", len(trackers))
	}
}

func TestShared_UpdateThenUseExisting(t *testing.T) {
	existing := abstinenceTracker(testStart, 1, nil)
	store := mock.NewTrackerStore(map[string][]tracker.Tracker{"device-1": {existing}})
	r := newTestRouter(store, newTestCatalog(t, true))

	state := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 2, UserName: "Anon"}
	body := map[string]string{"slug": "beer", "fragment": sharing.Encode(state)}

	w := doJSON(t, r, http.MethodPost, sharedPath, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp sharedLinkResponse
	decodeBody(t, w, &resp)
	if resp.Decision != reconcile.DecisionUseExistingAfterUpdate || resp.TrackerID != existing.ID.String() {
		t.Errorf("response = %s %s, expected %s %s", resp.Decision, resp.TrackerID,
			reconcile.DecisionUseExistingAfterUpdate, existing.ID)
	}
	if a, _ := resp.Tracker.Tracker.Abstinence(); a.UnitsPerDay != 2 {
		t.Errorf("UnitsPerDay = %v, expected 2", a.UnitsPerDay)
	}

	writes := store.Writes()
	w = doJSON(t, r, http.MethodPost, sharedPath, body)
	decodeBody(t, w, &resp)
	if resp.Decision != reconcile.DecisionUseExisting {
		t.Errorf("second Decision = %s, expected %s", resp.Decision, reconcile.DecisionUseExisting)
	}
	if store.Writes() != writes {
		t.Errorf("second request wrote %d times, expected none", store.Writes()-writes)
	}
}

func TestShared_Rejections(t *testing.T) {
	valid := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 1}

	tests := []struct {
		name         string
		body         interface{}
		wantStatus   int
		wantFallback bool
	}{
		{
			name:         "undecodable fragment",
			body:         map[string]string{"url": "https://quitter.example/beer#AAAA"},
			wantStatus:   http.StatusBadRequest,
			wantFallback: true,
		},
		{
			name:         "missing fragment",
			body:         map[string]string{"url": "https://quitter.example/beer"},
			wantStatus:   http.StatusBadRequest,
			wantFallback: true,
		},
		{
			name:         "empty body",
			body:         map[string]string{},
			wantStatus:   http.StatusBadRequest,
			wantFallback: true,
		},
		{
			name:         "unknown habit",
			body:         map[string]string{"url": shareLink("unknown-slug", valid)},
			wantStatus:   http.StatusNotFound,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewTrackerStore(nil)
			r := newTestRouter(store, newTestCatalog(t, true))

			w := doJSON(t, r, http.MethodPost, sharedPath, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}

			var body errorBody
			decodeBody(t, w, &body)
			if (body.Fallback == FallbackDashboard) != tt.wantFallback {
				t.Errorf("Fallback = %q, expected fallback %v", body.Fallback, tt.wantFallback)
			}
			if store.Writes() != 0 {
				t.Errorf("store writes = %d, expected 0", store.Writes())
			}
		})
	}
}

func TestShared_CatalogNotReady(t *testing.T) {
	store := mock.NewTrackerStore(nil)
	r := newTestRouter(store, newTestCatalog(t, false))

	state := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 1}
	w := doJSON(t, r, http.MethodPost, sharedPath, map[string]string{"url": shareLink("beer", state)})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusServiceUnavailable)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
	if store.Writes() != 0 {
		t.Errorf("store writes = %d, expected 0", store.Writes())
	}
}

func TestShared_StoreError(t *testing.T) {
	store := mock.NewTrackerStore(nil).WithListError(errors.New("redis down"))
	r := newTestRouter(store, newTestCatalog(t, true))

	state := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 1}
	w := doJSON(t, r, http.MethodPost, sharedPath, map[string]string{"url": shareLink("beer", state)})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusInternalServerError)
	}
}

func TestShared_DanglingThemeDropped(t *testing.T) {
	store := mock.NewTrackerStore(nil)
	r := newTestRouter(store, newTestCatalog(t, true))

	missing := "11111111-1111-1111-1111-111111111111"
	state := sharing.TrackerState{StartTimestamp: testStart, UnitsPerDay: 1, ThemeID: &missing}
	w := doJSON(t, r, http.MethodPost, sharedPath, map[string]string{"url": shareLink("beer", state)})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp sharedLinkResponse
	decodeBody(t, w, &resp)
	if a, _ := resp.Tracker.Tracker.Abstinence(); a.ThemeID != nil {
		t.Errorf("ThemeID = %v, expected nil", a.ThemeID)
	}
}
