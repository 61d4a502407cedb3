// Package constants provides shared constants for the divvyplan application.
package constants

// Currency constants
const (
	// MinorUnitsPerMajor is the number of pence in a pound.
	MinorUnitsPerMajor = 100

	// CurrencySymbol prefixes every rendered amount.
	CurrencySymbol = "£"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Director constants
const (
	// MaxDirectors is the largest number of directors a deal can be split between.
	MaxDirectors = 6

	// MinDirectors is the smallest number of directors a deal can be split between.
	MinDirectors = 1

	// SplitTolerance is the allowed deviation of custom split fractions from 100%.
	SplitTolerance = 0.0001
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"

	// OutputFormatPDF is the PDF report output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix namespaces environment overrides (DIVVYPLAN_LOGGING_LEVEL etc).
	EnvPrefix = "DIVVYPLAN"

	// DefaultStoreDir is where settings and session records are kept.
	DefaultStoreDir = ".divvyplan"
)

// Storage keys
const (
	// SettingsKey names the persisted tax settings record.
	SettingsKey = "divvyplan_settings"

	// StateKey names the persisted last-used session record.
	StateKey = "divvyplan_state"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API; loopback only
	DefaultServerAddress = "127.0.0.1:8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
