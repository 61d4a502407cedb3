package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"go.uber.org/zap"
)

// State is the last-used session: the deal, its directors and the chosen
// split method and tax band.
type State struct {
	DealInput        calc.DealInput        `json:"dealInput" yaml:"dealInput"`
	Directors        []calc.Director       `json:"directors" yaml:"directors"`
	SplitMethod      calc.SplitMethod      `json:"splitMethod" yaml:"splitMethod"`
	DividendRateTier calc.DividendRateTier `json:"dividendRateTier" yaml:"dividendRateTier"`
}

// DefaultState returns a new session with one director taking the whole pool
// and VAT flags taken from the settings defaults.
func DefaultState(settings calc.Settings) State {
	return State{
		DealInput: calc.DealInput{
			IncludesVAT:   settings.DefaultIncludesVAT,
			VATRegistered: settings.DefaultVATRegistered,
		},
		Directors: []calc.Director{
			{ID: uuid.NewString(), Name: "Director 1", SplitPercent: 1},
		},
		SplitMethod:      calc.SplitEqual,
		DividendRateTier: calc.TierBasic,
	}
}

// Validate checks the state before it is used for a calculation.
func (s State) Validate() error {
	if err := s.DealInput.Validate(); err != nil {
		return err
	}
	if err := calc.ValidateDirectors(s.Directors); err != nil {
		return err
	}
	if _, err := calc.ParseSplitMethod(string(s.SplitMethod)); err != nil {
		return err
	}
	if _, err := calc.ParseTier(string(s.DividendRateTier)); err != nil {
		return err
	}
	return nil
}

// Store loads and saves settings and session records.
type Store struct {
	kv       KV
	logger   *zap.Logger
	validate *validator.Validate
}

// New wraps a KV medium.
func New(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger, validate: validator.New()}
}

// LoadSettings returns the stored settings merged over the defaults. Fields
// that are missing or fail validation keep their default value; an unreadable
// record yields the defaults.
func (s *Store) LoadSettings() calc.Settings {
	const op = "store.LoadSettings"
	settings := calc.DefaultSettings()

	raw, ok := s.loadRecord(op, constants.SettingsKey)
	if !ok {
		return settings
	}

	field(s, op, raw, "vatRate", "gte=0,lte=1", &settings.VATRate)
	field(s, op, raw, "corpTaxRate", "gte=0,lte=1", &settings.CorpTaxRate)
	field(s, op, raw, "dividendPreset", "oneof=current april2026", &settings.DividendPreset)
	field(s, op, raw, "customDividendRate", "gte=0,lte=1", &settings.CustomDividendRate)
	field(s, op, raw, "defaultIncludesVAT", "", &settings.DefaultIncludesVAT)
	field(s, op, raw, "defaultVATRegistered", "", &settings.DefaultVATRegistered)

	var presets map[string]json.RawMessage
	field(s, op, raw, "presetRates", "", &presets)
	for _, preset := range calc.Presets {
		presetRaw, ok := presets[string(preset)]
		if !ok {
			continue
		}
		var tiers map[string]json.RawMessage
		if err := json.Unmarshal(presetRaw, &tiers); err != nil {
			s.warnField(op, "presetRates."+string(preset), err)
			continue
		}
		rates := settings.PresetRates[preset]
		field(s, op, tiers, "basic", "gte=0,lte=1", &rates.Basic)
		field(s, op, tiers, "higher", "gte=0,lte=1", &rates.Higher)
		field(s, op, tiers, "additional", "gte=0,lte=1", &rates.Additional)
		settings.PresetRates[preset] = rates
	}

	return settings
}

// SaveSettings overwrites the settings record.
func (s *Store) SaveSettings(settings calc.Settings) error {
	return s.saveRecord(constants.SettingsKey, settings)
}

// ResetSettings removes the stored settings and returns the defaults.
func (s *Store) ResetSettings() (calc.Settings, error) {
	if err := s.kv.Delete(constants.SettingsKey); err != nil {
		return calc.DefaultSettings(), err
	}
	return calc.DefaultSettings(), nil
}

// LoadState returns the stored session merged over DefaultState(settings).
// Missing VAT flags fall back to the settings' defaults and a director list
// that is not usable as a whole falls back to the default single director.
func (s *Store) LoadState(settings calc.Settings) State {
	const op = "store.LoadState"
	state := DefaultState(settings)

	raw, ok := s.loadRecord(op, constants.StateKey)
	if !ok {
		return state
	}

	var deal map[string]json.RawMessage
	field(s, op, raw, "dealInput", "", &deal)
	field(s, op, deal, "dealAmount", "gte=0", &state.DealInput.DealAmount)
	field(s, op, deal, "dealExpenses", "gte=0", &state.DealInput.DealExpenses)
	field(s, op, deal, "includesVAT", "", &state.DealInput.IncludesVAT)
	field(s, op, deal, "vatRegistered", "", &state.DealInput.VATRegistered)

	var directors []calc.Director
	field(s, op, raw, "directors", "", &directors)
	if directors != nil {
		if err := calc.ValidateDirectors(directors); err != nil {
			s.warnField(op, "directors", err)
		} else {
			state.Directors = directors
		}
	}

	field(s, op, raw, "splitMethod", "oneof=equal custom", &state.SplitMethod)
	field(s, op, raw, "dividendRateTier", "oneof=basic higher additional custom", &state.DividendRateTier)

	return state
}

// SaveState overwrites the session record.
func (s *Store) SaveState(state State) error {
	return s.saveRecord(constants.StateKey, state)
}

// ClearAll removes both records.
func (s *Store) ClearAll() error {
	if err := s.kv.Delete(constants.SettingsKey); err != nil {
		return err
	}
	return s.kv.Delete(constants.StateKey)
}

func (s *Store) loadRecord(op, key string) (map[string]json.RawMessage, bool) {
	data, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Error("failed to load record, using defaults",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("malformed record, using defaults",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	return raw, true
}

func (s *Store) saveRecord(key string, record interface{}) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Put(key, data); err != nil {
		return err
	}
	s.logger.Debug("record saved",
		zap.String("op", "store.saveRecord"),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func (s *Store) warnField(op, name string, err error) {
	s.logger.Warn("ignoring invalid stored field",
		zap.String("op", op),
		zap.String("field", name),
		zap.Error(err),
	)
}

// field decodes raw[key] into dst when present and valid under rule; dst is
// left untouched otherwise.
func field[T any](s *Store, op string, raw map[string]json.RawMessage, key, rule string, dst *T) {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return
	}

	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		s.warnField(op, key, err)
		return
	}
	if rule != "" {
		if err := s.validate.Var(v, rule); err != nil {
			s.warnField(op, key, err)
			return
		}
	}
	*dst = v
}
