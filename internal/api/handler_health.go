package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/model"
)

type createHealthRequest struct {
	FixtureID string `json:"fixture_id" binding:"required,uuid"`
	Status    string `json:"status" binding:"required,oneof=active no_response under_maintenance RMA"`
	Comments  string `json:"comments" binding:"max=256"`
	Creator   string `json:"creator" binding:"max=32"`
}

type updateHealthRequest struct {
	FixtureID *string `json:"fixture_id" binding:"omitempty,uuid"`
	Status    *string `json:"status" binding:"omitempty,oneof=active no_response under_maintenance RMA"`
	Comments  *string `json:"comments" binding:"omitempty,max=256"`
	Creator   *string `json:"creator" binding:"omitempty,max=32"`
}

func (h *Handler) healthFields(r updateHealthRequest) map[string]any {
	fields := make(map[string]any)
	setField(fields, "fixture_id", r.FixtureID)
	setField(fields, "status", r.Status)
	setField(fields, "creator", r.Creator)
	if r.Comments != nil {
		fields["comments"] = h.sanitize(*r.Comments)
	}
	return fields
}

// ListHealth handles GET /api/health, optionally filtered by ?fixture_id=.
func (h *Handler) ListHealth(c *gin.Context) {
	fixtureID, ok := h.queryID(c, "fixture_id")
	if !ok {
		return
	}
	events, err := h.store.ListHealthEvents(c.Request.Context(), fixtureID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetHealth(c *gin.Context) {
	handleGet(h, c, h.store.GetHealthEvent)
}

func (h *Handler) CreateHealth(c *gin.Context) {
	var req createHealthRequest
	if !h.bindJSON(c, &req) {
		return
	}

	e := model.HealthEvent{
		FixtureID: req.FixtureID,
		Status:    req.Status,
		Comments:  h.sanitize(req.Comments),
		Creator:   creator(c, req.Creator),
	}
	if err := h.store.CreateHealthEvent(c.Request.Context(), &e); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateHealth(c *gin.Context) {
	var req updateHealthRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "Health record", h.healthFields(req), h.store.UpdateHealthEvent)
}

func (h *Handler) DeleteHealth(c *gin.Context) {
	handleDelete(h, c, "Health record", h.store.DeleteHealthEvent)
}

// HealthSummary handles GET /api/health/summary.
func (h *Handler) HealthSummary(c *gin.Context) {
	out, err := h.health.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// HealthSummaryByFixture handles GET /api/health/summary/:fixtureId.
func (h *Handler) HealthSummaryByFixture(c *gin.Context) {
	fixtureID, ok := h.pathID(c, "fixtureId")
	if !ok {
		return
	}
	out, err := h.health.SummaryByID(c.Request.Context(), fixtureID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if out == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No health data found for fixture: " + fixtureID})
		return
	}
	c.JSON(http.StatusOK, out)
}
