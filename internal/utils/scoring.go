package utils

import (
	"errors"
	"fmt"
	"math"
)

// ScoringThresholds tunes the tenant score. Zero fields fall back to defaults.
type ScoringThresholds struct {
	AffordabilityWeight float64 // points awarded when income covers IncomeMultiple x rent
	DebtWeight          float64 // points awarded when debt-to-income is at or below MaxDTI
	IncomeMultiple      float64
	MaxDTI              float64
	CeilingDTI          float64 // at or above this ratio the debt component is zero
}

// DefaultScoringThresholds follows the common 3x-rent and 36% DTI rules.
var DefaultScoringThresholds = ScoringThresholds{
	AffordabilityWeight: 70,
	DebtWeight:          30,
	IncomeMultiple:      3,
	MaxDTI:              0.36,
	CeilingDTI:          0.60,
}

func (t ScoringThresholds) withDefaults() ScoringThresholds {
	d := DefaultScoringThresholds
	if t.AffordabilityWeight > 0 {
		d.AffordabilityWeight = t.AffordabilityWeight
	}
	if t.DebtWeight > 0 {
		d.DebtWeight = t.DebtWeight
	}
	if t.IncomeMultiple > 0 {
		d.IncomeMultiple = t.IncomeMultiple
	}
	if t.MaxDTI > 0 {
		d.MaxDTI = t.MaxDTI
	}
	if t.CeilingDTI > d.MaxDTI {
		d.CeilingDTI = t.CeilingDTI
	}
	return d
}

// Validate rejects thresholds that could score outside 0..100 once defaults are applied.
func (t ScoringThresholds) Validate() error {
	if t.AffordabilityWeight < 0 || t.DebtWeight < 0 || t.IncomeMultiple < 0 || t.MaxDTI < 0 || t.CeilingDTI < 0 {
		return errors.New("scoring thresholds cannot be negative")
	}
	e := t.withDefaults()
	if sum := e.AffordabilityWeight + e.DebtWeight; sum > 100 {
		return fmt.Errorf("scoring weights add up to %.2f, at most 100 is allowed", sum)
	}
	return nil
}

// ScoreTenant rates an applicant from 0 to 100 using monthly income, existing
// monthly debt and the property's monthly rent, all in cents.
func ScoreTenant(incomeCents, debtCents, rentCents int32, t ScoringThresholds) float64 {
	if incomeCents <= 0 || rentCents <= 0 {
		return 0
	}
	if debtCents < 0 {
		debtCents = 0
	}
	t = t.withDefaults()

	income := float64(incomeCents)
	rent := float64(rentCents)

	ratio := income / rent
	affordability := t.AffordabilityWeight
	if ratio < t.IncomeMultiple {
		affordability = t.AffordabilityWeight * ratio / t.IncomeMultiple
	}

	dti := (float64(debtCents) + rent) / income
	var debt float64
	switch {
	case dti <= t.MaxDTI:
		debt = t.DebtWeight
	case dti >= t.CeilingDTI:
		debt = 0
	default:
		debt = t.DebtWeight * (t.CeilingDTI - dti) / (t.CeilingDTI - t.MaxDTI)
	}

	score := math.Min(math.Max(affordability+debt, 0), 100)
	return math.Round(score*100) / 100
}
