// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import "github.com/gin-gonic/gin"

// Routes groups the handlers served by the HTTP API.
type Routes struct {
	Health   *Health
	Catalog  *Catalog
	Trackers *Trackers
	Shared   *Shared
}

// Register mounts every route on r.
func (rt Routes) Register(r gin.IRouter) {
	r.GET("/healthz", rt.Health.Live)
	r.GET("/readyz", rt.Health.Ready)

	api := r.Group("/api")

	api.GET("/habits", rt.Catalog.ListHabits)
	api.POST("/habits", rt.Catalog.CreateHabit)
	api.GET("/habits/:slug", rt.Catalog.GetHabitMessage)
	api.GET("/themes", rt.Catalog.ListThemes)
	api.POST("/themes", rt.Catalog.CreateTheme)

	device := api.Group("/devices/:device")
	device.GET("/trackers", rt.Trackers.List)
	device.POST("/trackers", rt.Trackers.Create)
	device.DELETE("/trackers/:id", rt.Trackers.Delete)
	device.POST("/trackers/:id/events", rt.Trackers.LogEvent)
	device.GET("/trackers/:id/share", rt.Trackers.Share)
	device.POST("/shared", rt.Shared.Receive)
}
