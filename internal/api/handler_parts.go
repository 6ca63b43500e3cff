package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/model"
)

type createPartRequest struct {
	ParentFixtureID string `json:"parent_fixture_id" binding:"required,uuid"`
	TesterType      string `json:"tester_type" binding:"required,oneof='Gen3 B Tester' 'Gen5 B Tester' 'LA Slot' 'RA Slot'"`
	FixtureSN       string `json:"fixture_sn" binding:"max=32"`
	TestType        string `json:"test_type" binding:"omitempty,oneof=Refurbish Sort Debug"`
	Creator         string `json:"creator" binding:"max=32"`
}

type updatePartRequest struct {
	ParentFixtureID *string `json:"parent_fixture_id" binding:"omitempty,uuid"`
	TesterType      *string `json:"tester_type" binding:"omitempty,oneof='Gen3 B Tester' 'Gen5 B Tester' 'LA Slot' 'RA Slot'"`
	FixtureSN       *string `json:"fixture_sn" binding:"omitempty,max=32"`
	TestType        *string `json:"test_type" binding:"omitempty,oneof=Refurbish Sort Debug"`
	Creator         *string `json:"creator" binding:"omitempty,max=32"`
}

func (r updatePartRequest) fields() map[string]any {
	fields := make(map[string]any)
	setField(fields, "parent_fixture_id", r.ParentFixtureID)
	setField(fields, "tester_type", r.TesterType)
	setField(fields, "fixture_sn", r.FixtureSN)
	setField(fields, "test_type", r.TestType)
	setField(fields, "creator", r.Creator)
	return fields
}

func (h *Handler) ListParts(c *gin.Context) {
	parts, err := h.store.ListParts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (h *Handler) GetPart(c *gin.Context) {
	handleGet(h, c, h.store.GetPart)
}

// CreatePart handles POST /api/fixture-parts. Slot parts are checked against
// the parent's existing children and rejected with 409 when the slot is taken.
func (h *Handler) CreatePart(c *gin.Context) {
	var req createPartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p := model.FixturePart{
		ParentFixtureID: req.ParentFixtureID,
		TesterType:      req.TesterType,
		FixtureSN:       req.FixtureSN,
		TestType:        req.TestType,
		Creator:         creator(c, req.Creator),
	}
	if err := h.store.CreatePart(c.Request.Context(), &p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePart(c *gin.Context) {
	var req updatePartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "Fixture part", req.fields(), h.store.UpdatePart)
}

func (h *Handler) DeletePart(c *gin.Context) {
	handleDelete(h, c, "Fixture part", h.store.DeletePart)
}
