// Package geometry converts layout rectangles reported by the frontend into the
// logical coordinate space expected by the embedding platform.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/panehost/internal/domain/entity"
)

// Policy selects which unit the frontend reports rectangles in.
// One policy serves every geometry-bearing operation of a host; mixing them
// between create and reposition makes panes drift.
type Policy string

const (
	// PolicyLogical: the frontend already reports CSS (logical) pixels.
	PolicyLogical Policy = "logical"
	// PolicyPhysical: the frontend reports device pixels; divide by the scale factor.
	PolicyPhysical Policy = "physical"
)

// ParsePolicy parses a configuration value. Empty means PolicyLogical.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLogical:
		return PolicyLogical, nil
	case PolicyPhysical:
		return PolicyPhysical, nil
	default:
		return "", fmt.Errorf("unknown geometry policy %q (want %q or %q)", s, PolicyLogical, PolicyPhysical)
	}
}

// Transformer applies a Policy.
type Transformer struct {
	policy Policy
}

// NewTransformer returns a transformer for policy. An empty policy means PolicyLogical.
func NewTransformer(policy Policy) Transformer {
	if policy == "" {
		policy = PolicyLogical
	}
	return Transformer{policy: policy}
}

// Policy returns the policy in effect.
func (t Transformer) Policy() Policy {
	return t.policy
}

// Transform converts a caller rectangle into logical units at the given scale.
// The scale is validated under both policies so a broken platform query never
// goes unnoticed.
func (t Transformer) Transform(r entity.Rect, scale float64) (entity.Rect, error) {
	if err := r.Validate(); err != nil {
		return entity.Rect{}, err
	}
	if err := validateScale(scale); err != nil {
		return entity.Rect{}, err
	}

	switch t.policy {
	case PolicyPhysical:
		return r.Scale(1 / scale), nil
	case PolicyLogical:
		return r, nil
	default:
		return entity.Rect{}, fmt.Errorf("unknown geometry policy %q", t.policy)
	}
}

// Inverse maps a logical rectangle back into caller units.
func (t Transformer) Inverse(r entity.Rect, scale float64) (entity.Rect, error) {
	if err := validateScale(scale); err != nil {
		return entity.Rect{}, err
	}
	if t.policy == PolicyPhysical {
		return r.Scale(scale), nil
	}
	return r, nil
}

func validateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return fmt.Errorf("%w: invalid value %v", entity.ErrScaleFactorUnavailable, scale)
	}
	return nil
}
