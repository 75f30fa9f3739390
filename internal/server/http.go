// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bobishh/quitter/pkg/handler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// HTTPServer manages the HTTP API server lifecycle.
type HTTPServer struct {
	server *http.Server
	port   int
	routes handler.Routes
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, routes handler.Routes) *HTTPServer {
	return &HTTPServer{
		port:   port,
		routes: routes,
	}
}

// Setup configures the router with middleware and registers handlers.
func (s *HTTPServer) Setup() error {
	engine := NewEngine()
	s.routes.Register(engine)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.Infof("registered HTTP API routes")
	return nil
}

// NewEngine creates a gin engine with the service middleware.
func NewEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		TracePropagation(),
		RequestLogger(logrus.StandardLogger()),
	)
	return engine
}

// TracePropagation extracts the caller's trace context from request headers,
// so handler scopes continue the remote trace.
func TracePropagation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("HTTP request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Debug("HTTP request")
		}
	}
}

// Start begins listening and serving HTTP requests.
func (s *HTTPServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	go func() {
		logrus.Infof("HTTP server listening on port %d", s.port)
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("HTTP server stopped")
	return nil
}
