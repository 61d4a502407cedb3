package calc

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/divvyplan/internal/apperrors"
	"github.com/iwvelando/divvyplan/pkg/constants"
)

var validate = validator.New()

// IsValidSplit reports whether the directors' custom split fractions add up
// to 100% within tolerance. An empty set is never valid.
func IsValidSplit(directors []Director) bool {
	if len(directors) == 0 {
		return false
	}
	var total float64
	for _, d := range directors {
		total += d.SplitPercent
	}
	return math.Abs(total-1) < constants.SplitTolerance
}

// IsValidSplitFor reports whether the directors can be split by method. Equal
// splits ignore the stored fractions and are always valid; custom splits must
// pass IsValidSplit.
func IsValidSplitFor(method SplitMethod, directors []Director) bool {
	if method == SplitEqual {
		return len(directors) > 0
	}
	return IsValidSplit(directors)
}

// Validate rejects settings the calculator is not defined for.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: settings: %v", apperrors.ErrValidation, err)
	}
	for _, preset := range Presets {
		if _, ok := s.PresetRates[preset]; !ok {
			return fmt.Errorf("%w: settings: missing rates for preset %q", apperrors.ErrValidation, preset)
		}
	}
	return nil
}

// Validate rejects negative or non-finite deal amounts.
func (d DealInput) Validate() error {
	if math.IsInf(d.DealAmount, 0) || math.IsInf(d.DealExpenses, 0) {
		return fmt.Errorf("%w: deal: amounts must be finite", apperrors.ErrValidation)
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: deal: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// ValidateDirectors checks the director set: between one and six entries,
// unique non-empty ids and split fractions within [0,1]. It does not require
// the fractions to sum to 100%; see IsValidSplit.
func ValidateDirectors(directors []Director) error {
	if len(directors) < constants.MinDirectors || len(directors) > constants.MaxDirectors {
		return fmt.Errorf("%w: expected %d to %d directors, got %d",
			apperrors.ErrValidation, constants.MinDirectors, constants.MaxDirectors, len(directors))
	}

	seen := make(map[string]struct{}, len(directors))
	for i, d := range directors {
		if err := validate.Struct(d); err != nil {
			return fmt.Errorf("%w: director %d: %v", apperrors.ErrValidation, i+1, err)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: duplicate director id %q", apperrors.ErrValidation, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// ParseSplitMethod converts a user supplied split method name.
func ParseSplitMethod(value string) (SplitMethod, error) {
	switch m := SplitMethod(value); m {
	case SplitEqual, SplitCustom:
		return m, nil
	}
	return "", fmt.Errorf("%w: expected split method %s or %s, got %q",
		apperrors.ErrValidation, SplitEqual, SplitCustom, value)
}

// ParseTier converts a user supplied dividend rate tier name.
func ParseTier(value string) (DividendRateTier, error) {
	for _, t := range Tiers {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dividend rate tier %q", apperrors.ErrValidation, value)
}

// ParsePreset converts a user supplied preset name.
func ParsePreset(value string) (DividendRatePreset, error) {
	for _, p := range Presets {
		if string(p) == value {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dividend rate preset %q", apperrors.ErrValidation, value)
}
