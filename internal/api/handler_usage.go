package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/model"
	"fixture-tracker-backend/internal/parse"
	"fixture-tracker-backend/internal/usage"
)

type createUsageRequest struct {
	FixturePartID string `json:"fixture_part_id" binding:"required,uuid"`
	TestSlot      string `json:"test_slot" binding:"required,oneof=LA RA"`
	TestStation   string `json:"test_station" binding:"max=32"`
	TestType      string `json:"test_type" binding:"required,oneof=Refurbish Sort Debug"`
	GPUPN         string `json:"gpu_pn" binding:"max=32"`
	GPUSN         string `json:"gpu_sn" binding:"max=32"`
	LogPath       string `json:"log_path" binding:"max=256"`
	Creator       string `json:"creator" binding:"max=32"`
}

type updateUsageRequest struct {
	FixturePartID *string `json:"fixture_part_id" binding:"omitempty,uuid"`
	TestSlot      *string `json:"test_slot" binding:"omitempty,oneof=LA RA"`
	TestStation   *string `json:"test_station" binding:"omitempty,max=32"`
	TestType      *string `json:"test_type" binding:"omitempty,oneof=Refurbish Sort Debug"`
	GPUPN         *string `json:"gpu_pn" binding:"omitempty,max=32"`
	GPUSN         *string `json:"gpu_sn" binding:"omitempty,max=32"`
	LogPath       *string `json:"log_path" binding:"omitempty,max=256"`
	Creator       *string `json:"creator" binding:"omitempty,max=32"`
}

func (r updateUsageRequest) fields() map[string]any {
	fields := make(map[string]any)
	setField(fields, "fixture_part_id", r.FixturePartID)
	setField(fields, "test_slot", r.TestSlot)
	setField(fields, "test_station", r.TestStation)
	setField(fields, "test_type", r.TestType)
	setField(fields, "gpu_pn", r.GPUPN)
	setField(fields, "gpu_sn", r.GPUSN)
	setField(fields, "log_path", r.LogPath)
	setField(fields, "creator", r.Creator)
	return fields
}

// ListUsage handles GET /api/usage, optionally filtered by ?fixture_part_id=.
func (h *Handler) ListUsage(c *gin.Context) {
	partID, ok := h.queryID(c, "fixture_part_id")
	if !ok {
		return
	}
	rows, err := h.store.ListUsage(c.Request.Context(), partID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetUsage(c *gin.Context) {
	handleGet(h, c, h.store.GetUsage)
}

func (h *Handler) CreateUsage(c *gin.Context) {
	var req createUsageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	u := model.Usage{
		FixturePartID: req.FixturePartID,
		TestSlot:      req.TestSlot,
		TestStation:   req.TestStation,
		TestType:      req.TestType,
		GPUPN:         req.GPUPN,
		GPUSN:         req.GPUSN,
		LogPath:       req.LogPath,
		Creator:       creator(c, req.Creator),
	}
	if err := h.store.CreateUsage(c.Request.Context(), &u); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) UpdateUsage(c *gin.Context) {
	var req updateUsageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "Usage", req.fields(), h.store.UpdateUsage)
}

func (h *Handler) DeleteUsage(c *gin.Context) {
	handleDelete(h, c, "Usage", h.store.DeleteUsage)
}

// UsageSummary handles GET /api/usage/summary.
func (h *Handler) UsageSummary(c *gin.Context) {
	out, err := h.usage.FixtureUsageSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UsageStatus handles GET /api/usage/status.
func (h *Handler) UsageStatus(c *gin.Context) {
	out, err := h.usage.FixtureUsageStatus(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// StationSummary handles GET /api/usage/station-summary?range=7d.
func (h *Handler) StationSummary(c *gin.Context) {
	out, err := h.usage.StationSummary(c.Request.Context(), c.Query("range"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// WeeklyActivity handles GET /api/usage/weekly-activity?days=30.
func (h *Handler) WeeklyActivity(c *gin.Context) {
	days := parse.ParseDays(c.Query("days"), usage.DefaultWeeklyDays)
	out, err := h.usage.WeeklyStationActivity(c.Request.Context(), days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
