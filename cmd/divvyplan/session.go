package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/divvyplan/internal/apperrors"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/internal/config"
	"github.com/iwvelando/divvyplan/internal/roster"
	"github.com/iwvelando/divvyplan/internal/store"
	"github.com/iwvelando/divvyplan/pkg/money"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// directorArg is one -director flag: a name and an optional hand-set split.
type directorArg struct {
	name     string
	split    float64
	hasSplit bool
}

// directorFlag collects repeated -director flags.
type directorFlag []directorArg

func (f *directorFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(*f))
	for i, d := range *f {
		parts[i] = d.name
		if d.hasSplit {
			parts[i] += "=" + strconv.FormatFloat(d.split, 'f', -1, 64)
		}
	}
	return strings.Join(parts, ",")
}

// Set parses "Name", "Name=0.6" or "Name=60%".
func (f *directorFlag) Set(value string) error {
	arg := directorArg{name: strings.TrimSpace(value)}

	if idx := strings.LastIndex(value, "="); idx >= 0 {
		arg.name = strings.TrimSpace(value[:idx])
		raw := strings.TrimSpace(value[idx+1:])

		scale := 1.0
		if strings.HasSuffix(raw, "%") {
			raw = strings.TrimSuffix(raw, "%")
			scale = 100
		}
		split, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid split in %q: %v", value, err)
		}
		arg.split = split / scale
		arg.hasSplit = true
	}

	*f = append(*f, arg)
	return nil
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, strings.TrimSpace(value))
	return nil
}

// sessionOptions holds the deal flags that were set on the command line.
// Nil pointers and empty strings mean "keep the loaded value".
type sessionOptions struct {
	Amount        string
	Expenses      string
	VATRegistered *bool
	IncludesVAT   *bool
	Directors     directorFlag
	Remove        stringList
	Rename        stringList
	SplitMethod   string
	Tier          string
}

// buildRoster turns -director flags into a roster. Directors given a split
// keep it; the rest share what is left equally.
func buildRoster(args directorFlag) (*roster.Roster, error) {
	r := roster.New(nil)
	for _, arg := range args {
		d, err := r.Add(arg.name)
		if err != nil {
			return nil, err
		}
		if arg.hasSplit {
			if err := r.SetSplit(d.ID, arg.split); err != nil {
				return nil, fmt.Errorf("director %q: %w", d.Name, err)
			}
		}
	}
	return r, nil
}

// editRoster applies -remove-director and -rename-director ("Old=New") by
// director name. The first director with a matching name is used.
func editRoster(r *roster.Roster, remove, rename []string) error {
	for _, name := range remove {
		id, err := directorID(r, name)
		if err != nil {
			return err
		}
		if err := r.Remove(id); err != nil {
			return fmt.Errorf("remove director %q: %w", name, err)
		}
	}

	for _, pair := range rename {
		idx := strings.Index(pair, "=")
		if idx < 0 {
			return fmt.Errorf("%w: rename %q must be Old=New", apperrors.ErrValidation, pair)
		}
		oldName, newName := strings.TrimSpace(pair[:idx]), strings.TrimSpace(pair[idx+1:])
		if newName == "" {
			return fmt.Errorf("%w: rename %q has an empty new name", apperrors.ErrValidation, pair)
		}
		id, err := directorID(r, oldName)
		if err != nil {
			return err
		}
		if err := r.Rename(id, newName); err != nil {
			return err
		}
	}
	return nil
}

func directorID(r *roster.Roster, name string) (string, error) {
	for _, d := range r.Directors() {
		if d.Name == name {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no director named %q", apperrors.ErrNotFound, name)
}

// applyOptions layers command line options over a loaded session.
func applyOptions(state store.State, opts sessionOptions) (store.State, error) {
	if opts.Amount != "" {
		amount, err := money.ParseAmount(opts.Amount)
		if err != nil {
			return state, fmt.Errorf("deal amount: %w", err)
		}
		state.DealInput.DealAmount = amount
	}
	if opts.Expenses != "" {
		expenses, err := money.ParseAmount(opts.Expenses)
		if err != nil {
			return state, fmt.Errorf("deal expenses: %w", err)
		}
		state.DealInput.DealExpenses = expenses
	}
	if opts.VATRegistered != nil {
		state.DealInput.VATRegistered = *opts.VATRegistered
	}
	if opts.IncludesVAT != nil {
		state.DealInput.IncludesVAT = *opts.IncludesVAT
	}

	if opts.SplitMethod != "" {
		method, err := calc.ParseSplitMethod(opts.SplitMethod)
		if err != nil {
			return state, err
		}
		state.SplitMethod = method
	}

	r := roster.New(state.Directors)
	if len(opts.Directors) > 0 {
		built, err := buildRoster(opts.Directors)
		if err != nil {
			return state, err
		}
		r = built
	}
	if err := editRoster(r, opts.Remove, opts.Rename); err != nil {
		return state, err
	}
	if state.SplitMethod == calc.SplitEqual {
		r.ResetLocks()
	}
	state.Directors = r.Directors()
	if opts.Tier != "" {
		tier, err := calc.ParseTier(opts.Tier)
		if err != nil {
			return state, err
		}
		state.DividendRateTier = tier
	}

	return state, state.Validate()
}

// openStore returns the configured store, or an in-memory one when the
// store is disabled.
func openStore(conf *config.Configuration, logger *zap.Logger) *store.Store {
	if conf.Store.Disabled {
		return store.New(store.NewFileKV(afero.NewMemMapFs(), "/"), logger)
	}
	return store.New(store.NewOSFileKV(conf.Store.Dir), logger)
}
