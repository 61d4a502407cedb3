package store

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *FileKV) {
	t.Helper()
	kv := NewFileKV(afero.NewMemMapFs(), "/data")
	return New(kv, zap.NewNop()), kv
}

func putRaw(t *testing.T, kv KV, key, data string) {
	t.Helper()
	require.NoError(t, kv.Put(key, []byte(data)))
}

func TestFileKV(t *testing.T) {
	fsys := afero.NewMemMapFs()
	kv := NewFileKV(fsys, "/data/nested")

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put("k", []byte(`{"a":1}`)))
	exists, err := afero.Exists(fsys, "/data/nested/k.json")
	require.NoError(t, err)
	assert.True(t, exists)

	data, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, kv.Put("k", []byte(`{}`)))
	data, _, _ = kv.Get("k")
	assert.Equal(t, `{}`, string(data))

	require.NoError(t, kv.Delete("k"))
	require.NoError(t, kv.Delete("k"))
	_, ok, _ = kv.Get("k")
	assert.False(t, ok)
}

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, calc.DefaultSettings(), s.LoadSettings())
}

func TestSettingsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	settings := calc.DefaultSettings()
	settings.VATRate = 0.175
	settings.CorpTaxRate = 0.19
	settings.DividendPreset = calc.PresetApril2026
	settings.CustomDividendRate = 0.3
	settings.DefaultIncludesVAT = false
	rates := settings.PresetRates[calc.PresetApril2026]
	rates.Basic = 0.11
	settings.PresetRates[calc.PresetApril2026] = rates

	require.NoError(t, s.SaveSettings(settings))
	assert.Equal(t, settings, s.LoadSettings())
}

func TestLoadSettingsFieldFallback(t *testing.T) {
	s, kv := newTestStore(t)
	putRaw(t, kv, constants.SettingsKey, `{
		"vatRate": 2.5,
		"corpTaxRate": 0.19,
		"dividendPreset": "1999",
		"customDividendRate": "lots",
		"defaultVATRegistered": false,
		"presetRates": {
			"current": {"basic": 0.09, "higher": -1},
			"april2026": "broken",
			"unknown": {"basic": 0.5}
		}
	}`)

	got := s.LoadSettings()
	want := calc.DefaultSettings()
	want.CorpTaxRate = 0.19
	want.DefaultVATRegistered = false
	current := want.PresetRates[calc.PresetCurrent]
	current.Basic = 0.09
	want.PresetRates[calc.PresetCurrent] = current

	assert.Equal(t, want, got)
	require.NoError(t, got.Validate())
}

func TestLoadSettingsMalformedRecord(t *testing.T) {
	s, kv := newTestStore(t)
	putRaw(t, kv, constants.SettingsKey, `not json`)
	assert.Equal(t, calc.DefaultSettings(), s.LoadSettings())
}

func TestResetSettings(t *testing.T) {
	s, kv := newTestStore(t)
	custom := calc.DefaultSettings()
	custom.VATRate = 0.1
	require.NoError(t, s.SaveSettings(custom))

	got, err := s.ResetSettings()
	require.NoError(t, err)
	assert.Equal(t, calc.DefaultSettings(), got)

	_, ok, err := kv.Get(constants.SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadStateDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	settings := calc.DefaultSettings()
	settings.DefaultIncludesVAT = false

	state := s.LoadState(settings)
	assert.False(t, state.DealInput.IncludesVAT)
	assert.True(t, state.DealInput.VATRegistered)
	assert.Equal(t, calc.SplitEqual, state.SplitMethod)
	assert.Equal(t, calc.TierBasic, state.DividendRateTier)
	require.Len(t, state.Directors, 1)
	assert.Equal(t, "Director 1", state.Directors[0].Name)
	assert.Equal(t, 1.0, state.Directors[0].SplitPercent)
	assert.NotEmpty(t, state.Directors[0].ID)
	require.NoError(t, state.Validate())
}

func TestStateRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	state := State{
		DealInput: calc.DealInput{DealAmount: 5000, DealExpenses: 250.5, IncludesVAT: true, VATRegistered: true},
		Directors: []calc.Director{
			{ID: "a", Name: "Alice", SplitPercent: 0.6},
			{ID: "b", Name: "Bob", SplitPercent: 0.4},
		},
		SplitMethod:      calc.SplitCustom,
		DividendRateTier: calc.TierHigher,
	}

	require.NoError(t, s.SaveState(state))
	assert.Equal(t, state, s.LoadState(calc.DefaultSettings()))
}

func TestLoadStateFieldFallback(t *testing.T) {
	s, kv := newTestStore(t)
	putRaw(t, kv, constants.StateKey, `{
		"dealInput": {"dealAmount": 1200, "dealExpenses": -5, "includesVAT": null},
		"directors": [{"id": "x", "name": "X", "splitPercent": 1}, {"id": "x", "name": "Dup", "splitPercent": 0}],
		"splitMethod": "weighted",
		"dividendRateTier": "additional"
	}`)

	settings := calc.DefaultSettings()
	settings.DefaultIncludesVAT = false
	settings.DefaultVATRegistered = false

	state := s.LoadState(settings)
	assert.Equal(t, 1200.0, state.DealInput.DealAmount)
	assert.Equal(t, 0.0, state.DealInput.DealExpenses)
	assert.False(t, state.DealInput.IncludesVAT)
	assert.False(t, state.DealInput.VATRegistered)
	require.Len(t, state.Directors, 1)
	assert.Equal(t, "Director 1", state.Directors[0].Name)
	assert.Equal(t, calc.SplitEqual, state.SplitMethod)
	assert.Equal(t, calc.TierAdditional, state.DividendRateTier)
}

func TestSaveStateWritesJSON(t *testing.T) {
	s, kv := newTestStore(t)
	state := DefaultState(calc.DefaultSettings())
	require.NoError(t, s.SaveState(state))

	data, ok, err := kv.Get(constants.StateKey)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "equal", decoded["splitMethod"])
	assert.Contains(t, decoded, "dealInput")
}

func TestClearAll(t *testing.T) {
	s, kv := newTestStore(t)
	require.NoError(t, s.SaveSettings(calc.DefaultSettings()))
	require.NoError(t, s.SaveState(DefaultState(calc.DefaultSettings())))

	require.NoError(t, s.ClearAll())
	for _, key := range []string{constants.SettingsKey, constants.StateKey} {
		_, ok, err := kv.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

type failingKV struct{}

func (failingKV) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk on fire") }
func (failingKV) Put(string, []byte) error         { return errors.New("disk on fire") }
func (failingKV) Delete(string) error              { return errors.New("disk on fire") }

func TestStoreMediumFailures(t *testing.T) {
	s := New(failingKV{}, nil)
	assert.Equal(t, calc.DefaultSettings(), s.LoadSettings())
	assert.Len(t, s.LoadState(calc.DefaultSettings()).Directors, 1)
	assert.Error(t, s.SaveSettings(calc.DefaultSettings()))
	assert.Error(t, s.ClearAll())
	_, err := s.ResetSettings()
	assert.Error(t, err)
}
