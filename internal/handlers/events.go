package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"user_auth/internal/apperrors"
	"user_auth/internal/models"
	"user_auth/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// EventsResponse lists the caller's audit events.
type EventsResponse struct {
	Count  int                `json:"count"`
	Events []models.AuthEvent `json:"events"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List my auth events
// @Description  Audit trail of the authenticated user. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'); a date-only 'to' is treated as end of day.
// @Tags         events
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(REGISTER,LOGIN,LOGIN_FAILED)
// @Success      200   {object}  EventsResponse
// @Failure      400   {object}  MessageResponse
// @Failure      401   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /api/v1/events [get]
// @Security     BearerAuth
func (h *Handler) listEvents(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, MessageResponse{Message: errFromInvalid})
			return
		}
	}
	// If the user didn't include a time component, treat "to" as the end of that day.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, MessageResponse{Message: errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	uid := currentUserID(c)
	events, err := h.services.Audit.List(c.Request.Context(), service.EventFilter{
		UserID: uid,
		From:   from,
		To:     to,
		Type:   c.Query("type"),
	})
	if err != nil {
		h.respondError(c, err, "events_list_failed", "user_id", uid, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, EventsResponse{Count: len(events), Events: events})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", apperrors.ErrInvalidInput, s)
}
