// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContentTypeProtobuf is the media type of catalog request bodies
	ContentTypeProtobuf = "application/x-protobuf"

	// FallbackDashboard tells the client to show the dashboard when a shared link is unusable
	FallbackDashboard = "dashboard"

	// DefaultCatalogWait bounds how long a shared-link request waits for the catalog to load
	DefaultCatalogWait = 2 * time.Second

	// maxProtobufBody caps catalog request bodies
	maxProtobufBody = 1 << 20
)

// errorBody is the JSON error envelope. Fallback is set for shared-link failures.
type errorBody struct {
	Error    string `json:"error"`
	Fallback string `json:"fallback,omitempty"`
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorBody{Error: err.Error()})
}

func abortWithFallback(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorBody{Error: err.Error(), Fallback: FallbackDashboard})
}

// trackerView is a tracker as rendered by the dashboard.
type trackerView struct {
	Tracker  tracker.Tracker `json:"tracker"`
	Habit    *tracker.Habit  `json:"habit,omitempty"`
	Metric   *float64        `json:"metric,omitempty"`
	Icons    int             `json:"icons"`
	Overflow bool            `json:"overflow"`
}

// newTrackerView computes the live metric at now. Non-finite metrics are
// omitted since JSON cannot carry them.
func newTrackerView(t tracker.Tracker, catalog *service.Catalog, now time.Time) trackerView {
	view := trackerView{Tracker: t}
	if h, ok := catalog.FindHabitByID(t.HabitID); ok {
		view.Habit = &h
	}

	metric := t.Metric(now)
	if !math.IsNaN(metric) && !math.IsInf(metric, 0) {
		view.Metric = &metric
	}

	var limit *uint32
	if a, ok := t.Abstinence(); ok && a.ThemeID != nil {
		if theme, ok := catalog.FindThemeByID(*a.ThemeID); ok {
			limit = theme.IconLimit
		}
	}
	view.Icons, view.Overflow = tracker.VisibleIcons(metric, limit)
	return view
}

// deviceLocks serializes read-decide-write sequences per device. Entries are
// reference counted and removed once no request holds or waits on them.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*deviceLock
}

type deviceLock struct {
	mu   sync.Mutex
	refs int
}

var devices deviceLocks

func (d *deviceLocks) lock(deviceID string) func() {
	d.mu.Lock()
	if d.locks == nil {
		d.locks = make(map[string]*deviceLock)
	}
	l, ok := d.locks[deviceID]
	if !ok {
		l = &deviceLock{}
		d.locks[deviceID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, deviceID)
		}
		d.mu.Unlock()
	}
}

func parseTrackerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}
