// Package config defines the data structures related to configuration and
// includes functions for loading it and applying tax overrides.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for divvyplan.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Tax     TaxConfig     `yaml:"tax,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, json, yaml, pdf
	File   string `yaml:"file,omitempty"`   // required for pdf
}

// StoreConfig locates the persisted settings and session records.
type StoreConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// ServerConfig holds the HTTP API parameters.
type ServerConfig struct {
	Address        string `yaml:"address,omitempty"`
	MaxRequestSize string `yaml:"maxRequestSize,omitempty"` // e.g. 256K, 1M
}

// TaxConfig overrides the built-in tax settings. Unset fields keep the
// stored or default value.
type TaxConfig struct {
	VATRate              *float64                     `yaml:"vatRate,omitempty"`
	CorpTaxRate          *float64                     `yaml:"corpTaxRate,omitempty"`
	DividendPreset       string                       `yaml:"dividendPreset,omitempty"`
	CustomDividendRate   *float64                     `yaml:"customDividendRate,omitempty"`
	DefaultIncludesVAT   *bool                        `yaml:"defaultIncludesVAT,omitempty"`
	DefaultVATRegistered *bool                        `yaml:"defaultVATRegistered,omitempty"`
	PresetRates          map[string]PresetRatesConfig `yaml:"presetRates,omitempty"`
}

// PresetRatesConfig overrides individual bands of one preset.
type PresetRatesConfig struct {
	Basic      *float64 `yaml:"basic,omitempty"`
	Higher     *float64 `yaml:"higher,omitempty"`
	Additional *float64 `yaml:"additional,omitempty"`
}

func newViper() *viper.Viper {
	// A .env file is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.file", "")
	v.SetDefault("store.dir", constants.DefaultStoreDir)
	v.SetDefault("store.disabled", false)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxRequestSize", fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes))
	return v
}

// Default returns the configuration used when no file is present, including
// any DIVVYPLAN_* environment overrides.
func Default() (*Configuration, error) {
	return decode(newViper())
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from memory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ApplyTax layers the tax overrides over base and validates the result.
// base is not modified.
func (c *Configuration) ApplyTax(base calc.Settings) (calc.Settings, error) {
	settings := base.Clone()
	tax := c.Tax

	if tax.VATRate != nil {
		settings.VATRate = *tax.VATRate
	}
	if tax.CorpTaxRate != nil {
		settings.CorpTaxRate = *tax.CorpTaxRate
	}
	if tax.DividendPreset != "" {
		preset, err := calc.ParsePreset(tax.DividendPreset)
		if err != nil {
			return base, err
		}
		settings.DividendPreset = preset
	}
	if tax.CustomDividendRate != nil {
		settings.CustomDividendRate = *tax.CustomDividendRate
	}
	if tax.DefaultIncludesVAT != nil {
		settings.DefaultIncludesVAT = *tax.DefaultIncludesVAT
	}
	if tax.DefaultVATRegistered != nil {
		settings.DefaultVATRegistered = *tax.DefaultVATRegistered
	}

	for name, override := range tax.PresetRates {
		preset, err := calc.ParsePreset(name)
		if err != nil {
			// Reported by ValidateConfiguration.
			continue
		}
		rates := settings.PresetRates[preset]
		if override.Basic != nil {
			rates.Basic = *override.Basic
		}
		if override.Higher != nil {
			rates.Higher = *override.Higher
		}
		if override.Additional != nil {
			rates.Additional = *override.Additional
		}
		settings.PresetRates[preset] = rates
	}

	if err := settings.Validate(); err != nil {
		return base, fmt.Errorf("invalid tax configuration: %w", err)
	}
	return settings, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	names := make([]string, 0, len(c.Tax.PresetRates))
	for name := range c.Tax.PresetRates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := calc.ParsePreset(name); err != nil {
			warnings = append(warnings, fmt.Sprintf("Unknown preset '%s' in tax.presetRates is ignored", name))
		}
	}

	if c.Output.Format == constants.OutputFormatPDF && c.Output.File == "" {
		warnings = append(warnings, "Output format 'pdf' needs output.file; falling back to pretty output")
	}

	if c.Store.Disabled {
		warnings = append(warnings, "Store is disabled; settings and session will not be remembered")
	}

	return warnings
}
