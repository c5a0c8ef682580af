package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/internal/logging"
	"github.com/huangsam/devevent/internal/ui"
	"github.com/huangsam/devevent/schema"
)

// UnavailableNotice replaces the list when the database cannot be reached.
const UnavailableNotice = "Events are unavailable right now. Please try again later."

// AllEventsHeading titles the listing page.
const AllEventsHeading = "All Events"

func (s *Server) handleHome(c *gin.Context) {
	limit := FeaturedLimit
	if s.opts.Limit > 0 && s.opts.Limit < limit {
		limit = s.opts.Limit
	}
	s.renderListing(c, ui.DefaultHeading, limit)
}

func (s *Server) handleEvents(c *gin.Context) {
	s.renderListing(c, AllEventsHeading, s.opts.Limit)
}

// renderListing writes a page of events. Configuration and connection errors
// degrade to an empty list with a notice; anything else is a 500.
func (s *Server) renderListing(c *gin.Context, heading string, limit int) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	data := ui.PageData{Heading: heading}
	events, err := s.store.ListEvents(ctx, limit)
	switch {
	case err == nil:
		data.Events = events
	case dbconn.IsConfigurationError(err) || dbconn.IsConnectionError(err):
		logger.Error().Err(err).Msg("failed to list events")
		data.Notice = UnavailableNotice
	default:
		logger.Error().Err(err).Msg("failed to list events")
		c.String(http.StatusInternalServerError, "failed to list events")
		return
	}

	page, err := ui.Page(data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to render page")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status      string                  `json:"status"`
	Connection  schema.ConnectionStatus `json:"connection"`
	TotalEvents int64                   `json:"total_events"`
	Error       string                  `json:"error,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()
	status, err := s.store.GetStatus(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, healthResponse{
			Status:     "unavailable",
			Connection: status.Connection,
			Error:      err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Connection:  status.Connection,
		TotalEvents: status.TotalEvents,
	})
}
