package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/model"
)

type createMaintenanceRequest struct {
	FixtureID     string     `json:"fixture_id" binding:"required,uuid"`
	EventType     string     `json:"event_type" binding:"omitempty,oneof=Scheduled Emergency Unknown"`
	StartDateTime *time.Time `json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
	Occurance     string     `json:"occurance" binding:"omitempty,oneof=Daily Weekly Monthly Quarterly Once"`
	Comments      string     `json:"comments" binding:"max=256"`
	IsCompleted   bool       `json:"is_completed"`
	Creator       string     `json:"creator" binding:"max=32"`
}

type updateMaintenanceRequest struct {
	FixtureID     *string    `json:"fixture_id" binding:"omitempty,uuid"`
	EventType     *string    `json:"event_type" binding:"omitempty,oneof=Scheduled Emergency Unknown"`
	StartDateTime *time.Time `json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
	Occurance     *string    `json:"occurance" binding:"omitempty,oneof=Daily Weekly Monthly Quarterly Once"`
	Comments      *string    `json:"comments" binding:"omitempty,max=256"`
	IsCompleted   *bool      `json:"is_completed"`
	Creator       *string    `json:"creator" binding:"omitempty,max=32"`
}

func (h *Handler) maintenanceFields(r updateMaintenanceRequest) map[string]any {
	fields := make(map[string]any)
	setField(fields, "fixture_id", r.FixtureID)
	setField(fields, "event_type", r.EventType)
	setField(fields, "occurance", r.Occurance)
	setField(fields, "is_completed", r.IsCompleted)
	setField(fields, "creator", r.Creator)
	if r.StartDateTime != nil {
		fields["start_date_time"] = r.StartDateTime.UTC()
	}
	if r.EndDateTime != nil {
		fields["end_date_time"] = r.EndDateTime.UTC()
	}
	if r.Comments != nil {
		fields["comments"] = h.sanitize(*r.Comments)
	}
	return fields
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ListMaintenance handles GET /api/fixture-maintenance, optionally filtered by ?fixture_id=.
func (h *Handler) ListMaintenance(c *gin.Context) {
	fixtureID, ok := h.queryID(c, "fixture_id")
	if !ok {
		return
	}
	events, err := h.store.ListMaintenanceEvents(c.Request.Context(), fixtureID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetMaintenance(c *gin.Context) {
	handleGet(h, c, h.store.GetMaintenanceEvent)
}

func (h *Handler) CreateMaintenance(c *gin.Context) {
	var req createMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if req.StartDateTime != nil && req.EndDateTime != nil && req.EndDateTime.Before(*req.StartDateTime) {
		h.respondError(c, apperr.Validation("end_date_time is before start_date_time"))
		return
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = model.EventTypeUnknown
	}
	m := model.MaintenanceEvent{
		FixtureID:     req.FixtureID,
		EventType:     eventType,
		StartDateTime: utc(req.StartDateTime),
		EndDateTime:   utc(req.EndDateTime),
		Occurance:     req.Occurance,
		Comments:      h.sanitize(req.Comments),
		IsCompleted:   req.IsCompleted,
		Creator:       creator(c, req.Creator),
	}
	if err := h.store.CreateMaintenanceEvent(c.Request.Context(), &m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMaintenance(c *gin.Context) {
	var req updateMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "Maintenance", h.maintenanceFields(req), h.store.UpdateMaintenanceEvent)
}

func (h *Handler) DeleteMaintenance(c *gin.Context) {
	handleDelete(h, c, "Maintenance", h.store.DeleteMaintenanceEvent)
}
