package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixture-tracker-backend/internal/model"
)

type createFixtureRequest struct {
	FixtureName string `json:"fixture_name" binding:"required,max=64"`
	GenType     string `json:"gen_type" binding:"required,oneof='Gen3 B Tester' 'Gen5 B Tester'"`
	Rack        string `json:"rack" binding:"max=32"`
	FixtureSN   string `json:"fixture_sn" binding:"max=32"`
	TestType    string `json:"test_type" binding:"omitempty,oneof=Refurbish Sort Debug"`
	IPAddress   string `json:"ip_address" binding:"omitempty,ip"`
	MACAddress  string `json:"mac_address" binding:"omitempty,mac"`
	Creator     string `json:"creator" binding:"max=32"`
}

type updateFixtureRequest struct {
	FixtureName *string `json:"fixture_name" binding:"omitempty,min=1,max=64"`
	GenType     *string `json:"gen_type" binding:"omitempty,oneof='Gen3 B Tester' 'Gen5 B Tester'"`
	Rack        *string `json:"rack" binding:"omitempty,max=32"`
	FixtureSN   *string `json:"fixture_sn" binding:"omitempty,max=32"`
	TestType    *string `json:"test_type" binding:"omitempty,oneof=Refurbish Sort Debug"`
	IPAddress   *string `json:"ip_address" binding:"omitempty,ip"`
	MACAddress  *string `json:"mac_address" binding:"omitempty,mac"`
	Creator     *string `json:"creator" binding:"omitempty,max=32"`
}

func (r updateFixtureRequest) fields() map[string]any {
	fields := make(map[string]any)
	setField(fields, "fixture_name", r.FixtureName)
	setField(fields, "gen_type", r.GenType)
	setField(fields, "rack", r.Rack)
	setField(fields, "fixture_sn", r.FixtureSN)
	setField(fields, "test_type", r.TestType)
	setField(fields, "ip_address", r.IPAddress)
	setField(fields, "mac_address", r.MACAddress)
	setField(fields, "creator", r.Creator)
	return fields
}

// ListFixtures handles GET /api/fixtures.
func (h *Handler) ListFixtures(c *gin.Context) {
	fixtures, err := h.store.ListFixtures(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fixtures)
}

// ListBTesters handles GET /api/fixtures/b-testers.
func (h *Handler) ListBTesters(c *gin.Context) {
	fixtures, err := h.store.ListBTesters(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fixtures)
}

// AvailableParents handles GET /api/fixtures/available-parents?slot=LA|RA.
func (h *Handler) AvailableParents(c *gin.Context) {
	candidates, err := h.resolver.AvailableParents(c.Request.Context(), c.Query("slot"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

func (h *Handler) GetFixture(c *gin.Context) {
	handleGet(h, c, h.store.GetFixture)
}

func (h *Handler) CreateFixture(c *gin.Context) {
	var req createFixtureRequest
	if !h.bindJSON(c, &req) {
		return
	}

	f := model.Fixture{
		FixtureName: req.FixtureName,
		GenType:     req.GenType,
		Rack:        req.Rack,
		FixtureSN:   req.FixtureSN,
		TestType:    req.TestType,
		IPAddress:   req.IPAddress,
		MACAddress:  req.MACAddress,
		Creator:     creator(c, req.Creator),
	}
	if err := h.store.CreateFixture(c.Request.Context(), &f); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) UpdateFixture(c *gin.Context) {
	var req updateFixtureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	handleUpdate(h, c, "Fixture", req.fields(), h.store.UpdateFixture)
}

func (h *Handler) DeleteFixture(c *gin.Context) {
	handleDelete(h, c, "Fixture", h.store.DeleteFixture)
}
