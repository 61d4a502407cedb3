// Package roster manages the list of directors a deal is split between,
// including directors whose custom split has been set by hand ("locked").
// Unlocked directors share whatever the locked directors leave over.
package roster

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/iwvelando/divvyplan/internal/apperrors"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
)

// Redistribute returns a copy of directors where locked entries keep their
// split and every unlocked entry receives an equal part of what remains
// (never less than zero).
func Redistribute(directors []calc.Director, locked map[string]bool) []calc.Director {
	var lockedTotal float64
	unlocked := 0
	for _, d := range directors {
		if locked[d.ID] {
			lockedTotal += d.SplitPercent
		} else {
			unlocked++
		}
	}

	perUnlocked := 0.0
	if unlocked > 0 {
		perUnlocked = math.Max(0, 1-lockedTotal) / float64(unlocked)
	}

	out := make([]calc.Director, len(directors))
	for i, d := range directors {
		out[i] = d
		if !locked[d.ID] {
			out[i].SplitPercent = perUnlocked
		}
	}
	return out
}

// Roster is an ordered director list plus the set of locked ids.
type Roster struct {
	directors []calc.Director
	locked    map[string]bool
}

// New builds a roster from existing directors with no locks.
func New(directors []calc.Director) *Roster {
	return &Roster{
		directors: append([]calc.Director(nil), directors...),
		locked:    make(map[string]bool),
	}
}

// Directors returns a copy of the current directors in order.
func (r *Roster) Directors() []calc.Director {
	return append([]calc.Director(nil), r.directors...)
}

// Len returns the number of directors.
func (r *Roster) Len() int {
	return len(r.directors)
}

// Add appends a director with a fresh id and rebalances unlocked splits. An
// empty name defaults to "Director N".
func (r *Roster) Add(name string) (calc.Director, error) {
	if len(r.directors) >= constants.MaxDirectors {
		return calc.Director{}, fmt.Errorf("%w: maximum of %d directors", apperrors.ErrRosterFull, constants.MaxDirectors)
	}
	if name == "" {
		name = fmt.Sprintf("Director %d", len(r.directors)+1)
	}

	d := calc.Director{ID: uuid.NewString(), Name: name}
	r.directors = Redistribute(append(r.directors, d), r.locked)
	return r.directors[len(r.directors)-1], nil
}

// Remove drops a director and rebalances unlocked splits. The last director
// cannot be removed.
func (r *Roster) Remove(id string) error {
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: director %q", apperrors.ErrNotFound, id)
	}
	if len(r.directors) <= constants.MinDirectors {
		return apperrors.ErrLastDirector
	}

	delete(r.locked, id)
	remaining := append(append([]calc.Director(nil), r.directors[:idx]...), r.directors[idx+1:]...)
	r.directors = Redistribute(remaining, r.locked)
	return nil
}

// SetSplit fixes a director's split, locks it and rebalances the unlocked
// directors. Fractions outside [0,1] are rejected.
func (r *Roster) SetSplit(id string, percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > 1 {
		return fmt.Errorf("%w: split %v outside [0,1]", apperrors.ErrValidation, percent)
	}
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: director %q", apperrors.ErrNotFound, id)
	}

	r.locked[id] = true
	r.directors[idx].SplitPercent = percent
	r.directors = Redistribute(r.directors, r.locked)
	return nil
}

// Rename changes a director's display name.
func (r *Roster) Rename(id, name string) error {
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: director %q", apperrors.ErrNotFound, id)
	}
	r.directors[idx].Name = name
	return nil
}

// ResetLocks forgets every hand-set split and shares the pool equally again.
// Switching to an equal split does this.
func (r *Roster) ResetLocks() {
	r.locked = make(map[string]bool)
	r.directors = Redistribute(r.directors, r.locked)
}

func (r *Roster) index(id string) int {
	for i, d := range r.directors {
		if d.ID == id {
			return i
		}
	}
	return -1
}
