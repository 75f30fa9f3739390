// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/bobishh/quitter/pkg/metrics"
	"github.com/bobishh/quitter/pkg/reconcile"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/gin-gonic/gin"
)

// Shared receives shared links opened on a device and reconciles them with
// the device's trackers.
type Shared struct {
	store       service.TrackerStore
	catalog     *service.Catalog
	reconciler  *reconcile.Reconciler
	catalogWait time.Duration
	now         func() time.Time
}

// NewShared creates the shared-link handler.
func NewShared(
	store service.TrackerStore,
	catalog *service.Catalog,
	reconciler *reconcile.Reconciler,
	catalogWait time.Duration,
) *Shared {
	if catalogWait <= 0 {
		catalogWait = DefaultCatalogWait
	}
	return &Shared{
		store:       store,
		catalog:     catalog,
		reconciler:  reconciler,
		catalogWait: catalogWait,
		now:         time.Now,
	}
}

// sharedLinkRequest carries either the full URL or its slug and fragment.
type sharedLinkRequest struct {
	URL      string `json:"url"`
	Slug     string `json:"slug"`
	Fragment string `json:"fragment"`
}

func (r sharedLinkRequest) decode() (string, sharing.TrackerState, error) {
	if r.URL != "" {
		return sharing.DecodeShareURL(r.URL)
	}
	if r.Slug == "" || r.Fragment == "" {
		return "", sharing.TrackerState{}, errors.New("either url or slug and fragment are required")
	}
	state, err := sharing.Decode(r.Fragment)
	return r.Slug, state, err
}

// sharedLinkResponse tells the client which tracker to show.
type sharedLinkResponse struct {
	Decision  string      `json:"decision"`
	TrackerID string      `json:"trackerId"`
	Tracker   trackerView `json:"tracker"`
}

// Receive handles POST /api/devices/:device/shared
//
// A link that does not decode, or names no known habit, leaves the store
// untouched and answers with the dashboard fallback.
func (h *Shared) Receive(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Shared.Receive")
	defer scope.Finish()

	device := c.Param("device")
	scope.SetAttributes("device", device)

	var req sharedLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithFallback(c, http.StatusBadRequest, err)
		return
	}

	slug, state, err := req.decode()
	if err != nil {
		metrics.SharedLinkFailuresTotal.WithLabelValues(metrics.ReasonDecode).Inc()
		scope.Log.Warnf("rejected shared link for device %s: %v", device, err)
		abortWithFallback(c, http.StatusBadRequest, err)
		return
	}
	scope.SetAttributes("habit", slug)

	waitCtx, cancel := context.WithTimeout(scope.Ctx, h.catalogWait)
	defer cancel()
	if err := h.catalog.WaitReady(waitCtx); err != nil {
		metrics.SharedLinkFailuresTotal.WithLabelValues(metrics.ReasonNotReady).Inc()
		c.Header("Retry-After", "1")
		abort(c, http.StatusServiceUnavailable, err)
		return
	}

	unlock := devices.lock(device)
	defer unlock()

	known, err := h.store.List(scope.Ctx, device)
	if err != nil {
		metrics.SharedLinkFailuresTotal.WithLabelValues(metrics.ReasonStore).Inc()
		scope.TraceError(err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	decision, err := h.reconciler.Reconcile(state, slug, known)
	if errors.Is(err, reconcile.ErrUnknownHabit) {
		metrics.SharedLinkFailuresTotal.WithLabelValues(metrics.ReasonUnknownHabit).Inc()
		scope.Log.Warnf("shared link for unknown habit %q on device %s", slug, device)
		abortWithFallback(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		scope.TraceError(err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	if err := reconcile.Apply(scope.Ctx, decision, device, h.store); err != nil {
		metrics.SharedLinkFailuresTotal.WithLabelValues(metrics.ReasonStore).Inc()
		scope.TraceError(err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	metrics.ReconcileDecisionsTotal.WithLabelValues(decision.Name()).Inc()
	scope.TraceEvent(decision.Name())
	scope.Log.Infof("shared link on device %s resolved to %s %s", device, decision.Name(), decision.TrackerID())

	t, err := h.store.Get(scope.Ctx, device, decision.TrackerID())
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, sharedLinkResponse{
		Decision:  decision.Name(),
		TrackerID: decision.TrackerID().String(),
		Tracker:   newTrackerView(t, h.catalog, h.now()),
	})
}
