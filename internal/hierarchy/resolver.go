// Package hierarchy decides which B Tester fixtures can take a new LA or RA slot part.
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"fixture-tracker-backend/internal/apperr"
	"fixture-tracker-backend/internal/model"
)

// MaxChildren is the number of parts a B Tester can host.
const MaxChildren = 2

// Slot is a child position on a B Tester.
type Slot string

const (
	SlotLA Slot = model.SlotLA
	SlotRA Slot = model.SlotRA
)

// ParseSlot accepts exactly "LA" or "RA".
func ParseSlot(raw string) (Slot, error) {
	switch Slot(raw) {
	case SlotLA, SlotRA:
		return Slot(raw), nil
	}
	return "", apperr.Validation("invalid slot %q (LA or RA only)", raw)
}

// TesterType returns the fixture-part tester type that occupies the slot.
func (s Slot) TesterType() string {
	if s == SlotLA {
		return model.TesterTypeLASlot
	}
	return model.TesterTypeRASlot
}

// SlotForTesterType maps a part tester type back to its slot.
func SlotForTesterType(testerType string) (Slot, bool) {
	switch testerType {
	case model.TesterTypeLASlot:
		return SlotLA, true
	case model.TesterTypeRASlot:
		return SlotRA, true
	}
	return "", false
}

// ParentCandidate is a B Tester that can accept the requested slot.
type ParentCandidate struct {
	ID          string `json:"id"`
	FixtureName string `json:"fixture_name"`
	Rack        string `json:"rack"`
	TestType    string `json:"test_type"`
	IPAddress   string `json:"ip_address"`
	MACAddress  string `json:"mac_address"`
	CanCreateLA bool   `json:"canCreateLA"`
	CanCreateRA bool   `json:"canCreateRA"`
}

// SlotOpen reports whether no child already occupies slot.
func SlotOpen(children []model.FixturePart, slot Slot) bool {
	want := slot.TesterType()
	for _, c := range children {
		if c.TesterType == want {
			return false
		}
	}
	return true
}

// Eligible reports whether a parent with these children can take a new part in slot.
func Eligible(children []model.FixturePart, slot Slot) bool {
	return len(children) < MaxChildren && SlotOpen(children, slot)
}

// CheckSlotAvailable validates a new part of testerType against the parent's existing children.
// Every part counts toward MaxChildren; slot parts must also find their slot open.
func CheckSlotAvailable(children []model.FixturePart, testerType string) error {
	if slot, ok := SlotForTesterType(testerType); ok && !SlotOpen(children, slot) {
		return apperr.Conflict("parent fixture already has a %s", testerType)
	}
	if len(children) >= MaxChildren {
		return apperr.Conflict("parent fixture already has %d children", MaxChildren)
	}
	return nil
}

// Candidates filters fixtures down to B Testers that can accept slot, sorted by name.
// children is keyed by parent fixture id.
func Candidates(fixtures []model.Fixture, children map[string][]model.FixturePart, slot Slot) []ParentCandidate {
	out := make([]ParentCandidate, 0, len(fixtures))
	for _, f := range fixtures {
		if !model.IsBTester(f.GenType) {
			continue
		}
		kids := children[f.ID]
		if !Eligible(kids, slot) {
			continue
		}
		out = append(out, ParentCandidate{
			ID:          f.ID,
			FixtureName: f.FixtureName,
			Rack:        f.Rack,
			TestType:    f.TestType,
			IPAddress:   f.IPAddress,
			MACAddress:  f.MACAddress,
			CanCreateLA: SlotOpen(kids, SlotLA),
			CanCreateRA: SlotOpen(kids, SlotRA),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FixtureName < out[j].FixtureName
	})
	return out
}

// Reader is the read side of the store the resolver needs.
type Reader interface {
	ListBTesters(ctx context.Context) ([]model.Fixture, error)
	ListPartsByParents(ctx context.Context, parentIDs []string) ([]model.FixturePart, error)
}

// Resolver answers available-parent queries.
type Resolver struct {
	reader Reader
}

// NewResolver creates a resolver over reader.
func NewResolver(reader Reader) *Resolver {
	return &Resolver{reader: reader}
}

// AvailableParents lists the B Testers that can accept a new part in the requested slot.
func (r *Resolver) AvailableParents(ctx context.Context, rawSlot string) ([]ParentCandidate, error) {
	slot, err := ParseSlot(rawSlot)
	if err != nil {
		return nil, err
	}

	testers, err := r.reader.ListBTesters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list b testers: %w", err)
	}
	if len(testers) == 0 {
		return []ParentCandidate{}, nil
	}

	ids := make([]string, len(testers))
	for i, f := range testers {
		ids[i] = f.ID
	}
	parts, err := r.reader.ListPartsByParents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture parts: %w", err)
	}

	return Candidates(testers, GroupByParent(parts), slot), nil
}

// GroupByParent indexes parts by parent fixture id.
func GroupByParent(parts []model.FixturePart) map[string][]model.FixturePart {
	grouped := make(map[string][]model.FixturePart)
	for _, p := range parts {
		grouped[p.ParentFixtureID] = append(grouped[p.ParentFixtureID], p)
	}
	return grouped
}
