// =============================================================================
// POS Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. A single YAML file drives a run:
//
//   1. data_dir / sources : where each entity collection is read from
//   2. query              : parameters of the canned queries
//   3. csv_settings       : how CSV sources are split
//   4. validation         : per-collection failure policy, integrity mode
//   5. logging            : level, format and destination of log output
//
// LOADING ORDER:
//   - .env (optional; a malformed one is an error) is loaded into the
//     process environment
//   - the YAML file is parsed; unknown keys are rejected
//   - POS_* environment variables override file values
//   - defaults are applied to anything still unset
//   - the result is validated
//
// A missing or malformed file is an error; the caller treats it as fatal
// because logging cannot be set up without it.
//
// =============================================================================

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/ginjaninja78/pos-report/pkg/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// DataDir is the directory the source files are resolved against.
	// Default: "./data"
	DataDir string `yaml:"data_dir"`

	// Sources maps each collection to its file name inside DataDir.
	// The extension selects the reader (.json, .csv, .xlsx). XLSX sources
	// may name a sheet with a "#Sheet" suffix.
	Sources map[types.Kind]string `yaml:"sources"`

	// Query holds the parameters of the canned queries.
	Query QuerySettings `yaml:"query"`

	// CSVSettings contains settings for reading CSV sources.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Validation controls what happens when a collection fails validation.
	Validation ValidationSettings `yaml:"validation"`

	// Logging controls the zerolog logger.
	Logging LoggingSettings `yaml:"logging"`
}

// QuerySettings holds the parameters of the canned queries.
type QuerySettings struct {
	// StockThreshold is the quantity below which a product needs restocking.
	// Default: 500
	StockThreshold int `yaml:"stock_threshold"`

	// FromDate and ToDate bound the transaction window (inclusive).
	// They are parsed with DateFormat.
	FromDate string `yaml:"from_date"`
	ToDate   string `yaml:"to_date"`

	// DateFormat is a Go time layout.
	// Default: "02-01-2006" (dd-mm-yyyy)
	DateFormat string `yaml:"date_format"`
}

// CSVSettings contains settings for parsing CSV sources.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// Policy decides whether a validation failure stops the run.
type Policy string

const (
	// PolicyAbort makes a validation failure fatal.
	PolicyAbort Policy = "abort"
	// PolicyContinue logs the failure and keeps the records that validated.
	// Products whose only failure is a negative quantity are kept as well.
	PolicyContinue Policy = "continue"
)

// IntegrityMode controls the referential integrity pass.
type IntegrityMode string

const (
	IntegrityOff    IntegrityMode = "off"
	IntegrityWarn   IntegrityMode = "warn"
	IntegrityStrict IntegrityMode = "strict"
)

// ValidationSettings controls validation behaviour.
type ValidationSettings struct {
	// ListSeparator splits list fields read from CSV or XLSX cells.
	// Default: "|"
	ListSeparator string `yaml:"list_separator"`

	// DefaultPolicy applies to every collection without an explicit policy.
	// Default: "abort"
	DefaultPolicy Policy `yaml:"default_policy"`

	// Policies overrides DefaultPolicy per collection.
	Policies map[types.Kind]Policy `yaml:"policies"`

	// Integrity selects the referential integrity mode.
	// Default: "warn"
	Integrity IntegrityMode `yaml:"integrity"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "console" (human readable) or "json".
	// Default: "console"
	Format string `yaml:"format"`

	// Output is "stdout", "stderr" or a file path.
	// Default: "stderr"
	Output string `yaml:"output"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultSources are the file names used by the original data set.
var DefaultSources = map[types.Kind]string{
	types.KindProduct:     "products.json",
	types.KindBranch:      "branch.json",
	types.KindStaff:       "staff.json",
	types.KindCustomer:    "customers.json",
	types.KindTransaction: "transactions.json",
	types.KindPurchase:    "purchase.json",
}

const (
	defaultDataDir        = "./data"
	defaultStockThreshold = 500
	defaultFromDate       = "01-03-2021"
	defaultToDate         = "03-03-2021"
	defaultDateFormat     = "02-01-2006"
	defaultListSeparator  = "|"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogOutput      = "stderr"
)

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// envFile holds environment overrides for local runs.
const envFile = ".env"

// loadEnvFile loads environment variables from path if the file exists.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	if !utils.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Parse parses YAML configuration data, applies environment overrides and
// defaults, and validates the result.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides replaces file values with POS_* environment variables.
func applyEnvOverrides(config *MainConfig) error {
	config.DataDir = getEnv("POS_DATA_DIR", config.DataDir)
	config.Logging.Level = getEnv("POS_LOG_LEVEL", config.Logging.Level)
	config.Logging.Format = getEnv("POS_LOG_FORMAT", config.Logging.Format)
	config.Logging.Output = getEnv("POS_LOG_OUTPUT", config.Logging.Output)

	if value, ok := os.LookupEnv("POS_STOCK_THRESHOLD"); ok && value != "" {
		threshold, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("POS_STOCK_THRESHOLD: %w", err)
		}
		config.Query.StockThreshold = threshold
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.DataDir == "" {
		config.DataDir = defaultDataDir
	}

	if config.Sources == nil {
		config.Sources = make(map[types.Kind]string, len(DefaultSources))
	}
	for kind, file := range DefaultSources {
		if config.Sources[kind] == "" {
			config.Sources[kind] = file
		}
	}

	// Query defaults.
	if config.Query.StockThreshold == 0 {
		config.Query.StockThreshold = defaultStockThreshold
	}
	if config.Query.FromDate == "" {
		config.Query.FromDate = defaultFromDate
	}
	if config.Query.ToDate == "" {
		config.Query.ToDate = defaultToDate
	}
	if config.Query.DateFormat == "" {
		config.Query.DateFormat = defaultDateFormat
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}

	// Validation defaults.
	if config.Validation.ListSeparator == "" {
		config.Validation.ListSeparator = defaultListSeparator
	}
	if config.Validation.DefaultPolicy == "" {
		config.Validation.DefaultPolicy = PolicyAbort
	}
	if config.Validation.Integrity == "" {
		config.Validation.Integrity = IntegrityWarn
	}

	// Logging defaults.
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = defaultLogFormat
	}
	if config.Logging.Output == "" {
		config.Logging.Output = defaultLogOutput
	}
}

// validateMainConfig validates the configuration.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	for kind := range config.Sources {
		if !isKnownKind(kind) {
			errs = append(errs, fmt.Errorf("sources: unknown collection %q", kind))
		}
	}

	if _, _, err := config.Query.Window(); err != nil {
		errs = append(errs, fmt.Errorf("query: %w", err))
	}

	if config.Validation.ListSeparator == config.CSVSettings.Delimiter {
		errs = append(errs, fmt.Errorf("validation.list_separator must differ from csv_settings.delimiter"))
	}

	if !config.Validation.DefaultPolicy.valid() {
		errs = append(errs, fmt.Errorf("validation.default_policy: unknown policy %q", config.Validation.DefaultPolicy))
	}
	for kind, policy := range config.Validation.Policies {
		if !isKnownKind(kind) {
			errs = append(errs, fmt.Errorf("validation.policies: unknown collection %q", kind))
		}
		if !policy.valid() {
			errs = append(errs, fmt.Errorf("validation.policies.%s: unknown policy %q", kind, policy))
		}
	}

	switch config.Validation.Integrity {
	case IntegrityOff, IntegrityWarn, IntegrityStrict:
	default:
		errs = append(errs, fmt.Errorf("validation.integrity: unknown mode %q", config.Validation.Integrity))
	}

	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", config.Logging.Format))
	}

	return errors.Join(errs...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Window parses FromDate and ToDate with DateFormat.
func (q QuerySettings) Window() (time.Time, time.Time, error) {
	from, err := time.Parse(q.DateFormat, q.FromDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse from_date: %w", err)
	}

	to, err := time.Parse(q.DateFormat, q.ToDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse to_date: %w", err)
	}

	return from, to, nil
}

// PolicyFor returns the failure policy of a collection.
func (v ValidationSettings) PolicyFor(kind types.Kind) Policy {
	if policy, ok := v.Policies[kind]; ok {
		return policy
	}
	return v.DefaultPolicy
}

func (p Policy) valid() bool {
	return p == PolicyAbort || p == PolicyContinue
}

func isKnownKind(kind types.Kind) bool {
	for _, known := range types.Kinds {
		if kind == known {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
