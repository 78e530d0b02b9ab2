// Package server exposes the live read model as a small JSON API so
// other consumers (wallboards, scripts) can reuse the dashboard's
// state without speaking the live-feed protocol. Strictly read-only.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetdeck/fleetdeck/internal/fleet"
	"github.com/fleetdeck/fleetdeck/internal/logger"
	"github.com/fleetdeck/fleetdeck/internal/metrics"
)

// ReadModel is what the server needs from the engine: point-in-time
// copies only, never a mutable handle.
type ReadModel interface {
	Records() []fleet.NodeViewRecord
	Snapshot() fleet.FleetSnapshot
	ConnState() fleet.ConnState
	LastFetchError() error
}

// Server serves the read model over HTTP.
type Server struct {
	model ReadModel
	log   logger.Logger
	http  *http.Server
}

// New creates a server listening on addr.
func New(addr string, model ReadModel, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}

	s := &Server{model: model, log: log}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)
	router.GET("/api/fleet", s.fleetSnapshot)
	router.GET("/api/nodes", s.nodes)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving until the listener fails or Shutdown
// is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("serving read model on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	status := map[string]string{
		"status": "healthy",
		"feed":   s.model.ConnState().String(),
	}
	if err := s.model.LastFetchError(); err != nil {
		status["last_fetch_error"] = err.Error()
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) fleetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.model.Snapshot())
}

// nodeView is the wire shape for a single node, with the display-layer
// region normalization and status string applied.
type nodeView struct {
	Node     fleet.Node       `json:"node"`
	Stats    *fleet.NodeStats `json:"stats,omitempty"`
	Status   string           `json:"status"`
	LastSeen time.Time        `json:"last_seen"`
	Region   string           `json:"region"`
}

func (s *Server) nodes(c *gin.Context) {
	records := s.model.Records()
	views := make([]nodeView, 0, len(records))
	for _, rec := range records {
		views = append(views, nodeView{
			Node:     rec.Node,
			Stats:    rec.Stats,
			Status:   rec.Status.String(),
			LastSeen: rec.LastSeen,
			Region:   metrics.NormalizeRegion(rec.Node.Region),
		})
	}
	c.JSON(http.StatusOK, views)
}
