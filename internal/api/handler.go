package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/hierarchy"
	"fixture-tracker-backend/internal/mw"
	"fixture-tracker-backend/internal/store"
	"fixture-tracker-backend/internal/usage"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	resolver *hierarchy.Resolver
	usage    *usage.Aggregator
	health   *health.Scorer
	webpush  *webpush.Options
	policy   *bluemonday.Policy
	log      *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		resolver: hierarchy.NewResolver(s),
		usage:    usage.NewAggregator(s),
		health:   health.NewScorer(s),
		webpush:  webpushOptions,
		policy:   bluemonday.StrictPolicy(),
		log:      slog.With("component", "api"),
	}
}

// respondError writes err as {"error": ...}. Errors that are not AppErrors are
// logged and answered with a generic 500 so driver details never leak.
func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.Error(err)
	if errors.Is(err, context.DeadlineExceeded) {
		h.log.Warn("request timed out", "path", c.FullPath(), "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "request timed out"})
		return
	}
	h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindJSON decodes and validates the body into req.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.respondError(c, apperr.Validation("invalid request: %s", err.Error()))
		return false
	}
	return true
}

// pathID returns the named path parameter when it is a UUID.
func (h *Handler) pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !isUUID(id) {
		h.respondError(c, apperr.Validation("invalid id format: %q", id))
		return "", false
	}
	return id, true
}

// queryID returns an optional UUID filter from the query string.
func (h *Handler) queryID(c *gin.Context, name string) (string, bool) {
	id := c.Query(name)
	if id != "" && !isUUID(id) {
		h.respondError(c, apperr.Validation("invalid %s format: %q", name, id))
		return "", false
	}
	return id, true
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

// creator defaults an omitted creator to the request identity.
func creator(c *gin.Context, given string) string {
	if given = strings.TrimSpace(given); given != "" {
		return given
	}
	if id, ok := mw.IdentityFrom(c); ok {
		return id.Username
	}
	return ""
}

// sanitize strips markup from free text.
func (h *Handler) sanitize(s string) string {
	return strings.TrimSpace(h.policy.Sanitize(s))
}

// setField records v under column when the client supplied it.
func setField[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}

func handleGet[T any](h *Handler, c *gin.Context, get func(context.Context, string) (*T, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	row, err := get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func handleUpdate[T any](h *Handler, c *gin.Context, what string, fields map[string]any, update func(context.Context, string, map[string]any) (*T, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if len(fields) == 0 {
		h.respondError(c, apperr.Validation("no valid fields provided for update"))
		return
	}
	row, err := update(c.Request.Context(), id, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": what + " updated", "updatedRow": row})
}

func handleDelete[T any](h *Handler, c *gin.Context, what string, del func(context.Context, string) (*T, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	row, err := del(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted", "deletedRow": row})
}
