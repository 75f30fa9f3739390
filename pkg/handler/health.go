// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is implemented by service.HealthChecker.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Health serves liveness and readiness probes.
type Health struct {
	checker HealthChecker
}

func NewHealth(checker HealthChecker) *Health {
	return &Health{checker: checker}
}

// Live handles GET /healthz
func (h *Health) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /readyz
func (h *Health) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if err := h.checker.Check(ctx); err != nil {
		status := "not_ready"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": status, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
