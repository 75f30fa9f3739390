// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/bobishh/quitter/pkg/metrics"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/wire"
	"github.com/gin-gonic/gin"
)

// Catalog serves habits and themes. New records arrive as protobuf bodies.
type Catalog struct {
	catalog *service.Catalog
	repo    service.CatalogRepository
}

// NewCatalog creates the catalog handler. repo may be nil, in which case new
// records live only in memory.
func NewCatalog(catalog *service.Catalog, repo service.CatalogRepository) *Catalog {
	return &Catalog{catalog: catalog, repo: repo}
}

// ListHabits handles GET /api/habits
func (h *Catalog) ListHabits(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Habits())
}

// ListThemes handles GET /api/themes
func (h *Catalog) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Themes())
}

// CreateHabit handles POST /api/habits
func (h *Catalog) CreateHabit(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Catalog.CreateHabit")
	defer scope.Finish()

	body, err := readProtobuf(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	msg, err := wire.UnmarshalHabit(body)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	habit, err := service.HabitFromWire(msg)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if existing, ok := h.catalog.FindHabitBySlug(habit.Slug); ok && existing.ID != habit.ID {
		abort(c, http.StatusConflict, fmt.Errorf("%w: slug %q already used", service.ErrInvalidHabit, habit.Slug))
		return
	}

	if h.repo != nil {
		if err := h.repo.InsertHabit(scope.Ctx, habit); err != nil {
			scope.TraceError(err)
			abort(c, http.StatusInternalServerError, err)
			return
		}
	}
	if err := h.catalog.AddHabit(habit); err != nil {
		abort(c, http.StatusConflict, err)
		return
	}

	metrics.CatalogRecords.WithLabelValues(metrics.KindHabit).Set(float64(len(h.catalog.Habits())))
	scope.Log.Infof("added habit %s (%s)", habit.Slug, habit.ID)
	c.JSON(http.StatusCreated, habit)
}

// CreateTheme handles POST /api/themes
func (h *Catalog) CreateTheme(c *gin.Context) {
	scope := common.GetScopeFromContext(c.Request.Context(), "Catalog.CreateTheme")
	defer scope.Finish()

	body, err := readProtobuf(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	msg, err := wire.UnmarshalTheme(body)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	theme, err := service.ThemeFromWire(msg)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	if h.repo != nil {
		if err := h.repo.InsertTheme(scope.Ctx, theme); err != nil {
			scope.TraceError(err)
			abort(c, http.StatusInternalServerError, err)
			return
		}
	}
	if err := h.catalog.AddTheme(theme); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	metrics.CatalogRecords.WithLabelValues(metrics.KindTheme).Set(float64(len(h.catalog.Themes())))
	scope.Log.Infof("added theme %s (%s)", theme.Name, theme.ID)
	c.JSON(http.StatusCreated, theme)
}

// GetHabitMessage handles GET /api/habits/:slug as a protobuf Habit message.
func (h *Catalog) GetHabitMessage(c *gin.Context) {
	habit, ok := h.catalog.FindHabitBySlug(c.Param("slug"))
	if !ok {
		abort(c, http.StatusNotFound, fmt.Errorf("habit %q not found", c.Param("slug")))
		return
	}
	c.Data(http.StatusOK, ContentTypeProtobuf, wire.MarshalHabit(service.HabitToWire(habit)))
}

var errNotProtobuf = errors.New("expected " + ContentTypeProtobuf + " body")

func readProtobuf(c *gin.Context) ([]byte, error) {
	if ct := c.ContentType(); ct != ContentTypeProtobuf && !strings.HasSuffix(ct, "+proto") {
		return nil, errNotProtobuf
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxProtobufBody))
}
