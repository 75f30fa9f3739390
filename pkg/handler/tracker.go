// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/bobishh/quitter/pkg/metrics"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Trackers serves a device's trackers.
type Trackers struct {
	store   service.TrackerStore
	catalog *service.Catalog
	origin  string
	now     func() time.Time
}

// NewTrackers creates the tracker handler. origin is the public base URL
// share links point at.
func NewTrackers(store service.TrackerStore, catalog *service.Catalog, origin string) *Trackers {
	return &Trackers{
		store:   store,
		catalog: catalog,
		origin:  origin,
		now:     time.Now,
	}
}

// createTrackerRequest is the body of POST /api/devices/:device/trackers.
// Rate is free text as typed by the user.
type createTrackerRequest struct {
	Habit    string     `json:"habit" binding:"required"`
	Kind     string     `json:"kind"`
	Start    *time.Time `json:"start"`
	Rate     string     `json:"rate"`
	ThemeID  *uuid.UUID `json:"themeId"`
	UserName string     `json:"userName"`
}

// List handles GET /api/devices/:device/trackers
func (h *Trackers) List(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Trackers.List")
	defer scope.Finish()

	trackers, err := h.store.List(scope.Ctx, c.Param("device"))
	if err != nil {
		scope.TraceError(err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	now := h.now()
	views := make([]trackerView, 0, len(trackers))
	for _, t := range trackers {
		views = append(views, newTrackerView(t, h.catalog, now))
	}
	c.JSON(http.StatusOK, views)
}

// Create handles POST /api/devices/:device/trackers
func (h *Trackers) Create(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Trackers.Create")
	defer scope.Finish()

	var req createTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	habit, ok := h.catalog.FindHabitBySlug(req.Habit)
	if !ok {
		abort(c, http.StatusNotFound, fmt.Errorf("habit %q not found", req.Habit))
		return
	}

	var t tracker.Tracker
	switch req.Kind {
	case "", tracker.KindAbstinence:
		start := h.now()
		if req.Start != nil {
			start = *req.Start
		}
		if req.ThemeID != nil {
			if _, ok := h.catalog.FindThemeByID(*req.ThemeID); !ok {
				abort(c, http.StatusBadRequest, fmt.Errorf("%w: unknown theme %s", service.ErrInvalidTheme, *req.ThemeID))
				return
			}
		}
		t = tracker.NewAbstinence(habit.ID, tracker.Abstinence{
			StartDate:   start,
			UnitsPerDay: sharing.ParseRate(req.Rate),
			ThemeID:     req.ThemeID,
			UserName:    req.UserName,
		})
	case tracker.KindUsage:
		t = tracker.Tracker{ID: uuid.New(), HabitID: habit.ID, Type: tracker.Usage{Events: []time.Time{}}}
	default:
		abort(c, http.StatusBadRequest, fmt.Errorf("unknown tracker kind %q", req.Kind))
		return
	}

	device := c.Param("device")
	if err := h.store.Create(scope.Ctx, device, t); err != nil {
		scope.TraceError(err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	scope.Log.Infof("created %s tracker %s for device %s", t.Kind(), t.ID, device)
	c.JSON(http.StatusCreated, newTrackerView(t, h.catalog, h.now()))
}

// LogEvent handles POST /api/devices/:device/trackers/:id/events, appending
// the current time to a usage tracker.
func (h *Trackers) LogEvent(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Trackers.LogEvent")
	defer scope.Finish()

	id, ok := parseTrackerID(c)
	if !ok {
		return
	}
	device := c.Param("device")

	unlock := devices.lock(device)
	defer unlock()

	t, err := h.store.Get(scope.Ctx, device, id)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	usage, ok := t.Type.(tracker.Usage)
	if !ok {
		abort(c, http.StatusUnprocessableEntity, fmt.Errorf("tracker %s is not a usage tracker", id))
		return
	}
	usage.Events = append(append([]time.Time{}, usage.Events...), h.now().UTC())
	t.Type = usage

	if err := h.store.Update(scope.Ctx, device, t); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTrackerView(t, h.catalog, h.now()))
}

// Delete handles DELETE /api/devices/:device/trackers/:id
func (h *Trackers) Delete(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Trackers.Delete")
	defer scope.Finish()

	id, ok := parseTrackerID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(scope.Ctx, c.Param("device"), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Share handles GET /api/devices/:device/trackers/:id/share
func (h *Trackers) Share(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Trackers.Share")
	defer scope.Finish()

	id, ok := parseTrackerID(c)
	if !ok {
		return
	}

	t, err := h.store.Get(scope.Ctx, c.Param("device"), id)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	habit, ok := h.catalog.FindHabitByID(t.HabitID)
	if !ok {
		abort(c, http.StatusNotFound, fmt.Errorf("habit %s of tracker %s not found", t.HabitID, id))
		return
	}

	url, err := sharing.ProduceShareURL(t, habit, h.origin)
	if errors.Is(err, sharing.ErrUnsupportedTrackerType) {
		abort(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	metrics.ShareLinksProducedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func abortStoreError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTrackerNotFound) {
		abort(c, http.StatusNotFound, err)
		return
	}
	abort(c, http.StatusInternalServerError, err)
}
