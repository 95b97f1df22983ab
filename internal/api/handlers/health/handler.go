package health

import (
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"

	"github.com/collabhub/notifications-service/internal/api/respond"
)

const serviceName = "notifications-service"

// Handler reports process liveness and downstream availability. The flags
// are informational only; they are not meant to drive load-balancer routing
// beyond "is the process alive".
type Handler struct {
	db            *dbpg.DB
	eventsEnabled bool
}

// NewHandler creates a new health handler.
func NewHandler(db *dbpg.DB, eventsEnabled bool) *Handler {
	return &Handler{db: db, eventsEnabled: eventsEnabled}
}

// InfoResponse is the body of the root info endpoint.
type InfoResponse struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Status        string `json:"status"`
	EventsEnabled bool   `json:"events_enabled"`
}

// CheckResponse is the body of the health endpoint.
type CheckResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Events   string `json:"events"`
}

// Info handles GET requests on the root endpoint.
func (h *Handler) Info(c *ginext.Context) {
	respond.OK(c.Writer, InfoResponse{
		Service:       serviceName,
		Version:       "1.0.0",
		Status:        "running",
		EventsEnabled: h.eventsEnabled,
	})
}

// Check handles GET requests on the health endpoint. A degraded database
// still responds healthy: store unavailability degrades functionality but
// does not make the process dead.
func (h *Handler) Check(c *ginext.Context) {
	database := "connected"
	if err := h.db.Master.PingContext(c.Request.Context()); err != nil {
		database = "disconnected"
	}

	events := "disabled"
	if h.eventsEnabled {
		events = "enabled"
	}

	respond.OK(c.Writer, CheckResponse{
		Status:   "healthy",
		Service:  serviceName,
		Database: database,
		Events:   events,
	})
}
