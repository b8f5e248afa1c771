// =============================================================================
// Payment Advice Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the main configuration file and for
// turning it into the immutable Settings value a single generation run uses.
//
// CONFIGURATION LAYERS (later wins):
//   1. Built-in defaults (DefaultMainConfig)
//   2. Main config file (config.yaml)
//   3. Per-run overrides (CLI flags, HTTP form fields)
//
// Nothing here is process-global: callers load a MainConfig, derive Settings,
// and pass both explicitly.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLogoURL is the brand mark drawn in the top-left of every document.
const DefaultLogoURL = "https://www.codingninjas.com/careercamp/wp-content/uploads/2025/10/CN_Logo_Dark.png"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// Company is the issuing company printed under "Issued to".
	Company CompanyConfig `yaml:"company"`

	// Invoice controls dates and numbering.
	Invoice InvoiceConfig `yaml:"invoice"`

	// Grouping controls the order recipients appear in the archive.
	Grouping GroupingConfig `yaml:"grouping"`

	// Input contains settings for reading the uploaded table.
	Input CSVSettings `yaml:"input"`

	// Brand locates the brand image.
	Brand BrandConfig `yaml:"brand"`

	// Output controls where the CLI writes the archive.
	Output OutputConfig `yaml:"output"`

	// Server configures the HTTP surface.
	Server ServerConfig `yaml:"server"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CompanyConfig is the issuing company's identity.
type CompanyConfig struct {
	Name         string `yaml:"name"`
	AddressLine1 string `yaml:"address_line1"`
	AddressLine2 string `yaml:"address_line2"`
}

// InvoiceConfig controls invoice dates and numbering.
type InvoiceConfig struct {
	// StartNumber is the number given to the first document. Minimum 1.
	StartNumber int `yaml:"start_number"`

	// Numbering is "sequential" (one number per document) or "constant"
	// (every document carries StartNumber).
	Numbering string `yaml:"numbering"`

	// Date is the issue date as YYYY-MM-DD. Empty means the run date.
	Date string `yaml:"date"`
}

// GroupingConfig controls recipient ordering.
type GroupingConfig struct {
	// Order is "first_seen" or "sorted".
	Order string `yaml:"order"`
}

// CSVSettings contains settings for parsing the uploaded table.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Supported values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the worksheet read from XLSX uploads. Empty means the first.
	Sheet string `yaml:"sheet"`
}

// BrandConfig locates the brand image.
type BrandConfig struct {
	// Logo is a file path or an http(s) URL to a PNG or JPEG image.
	// Empty disables the brand mark.
	Logo string `yaml:"logo"`

	// FetchTimeout bounds downloading a remote logo.
	// Default: 10s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// OutputConfig controls where archives are written by the CLI.
type OutputConfig struct {
	// Dir is the directory where the archive is written.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// ArchiveName is the archive file name.
	// Placeholders: {date} {timestamp} {uuid}
	// Default: "Invoices.zip"
	ArchiveName string `yaml:"archive_name"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultMainConfig returns a configuration with every default applied.
func DefaultMainConfig() *MainConfig {
	config := &MainConfig{
		Brand: BrandConfig{Logo: DefaultLogoURL},
	}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//   - explicit: Whether the user named the file. A missing file at the
//     default path falls back to DefaultMainConfig; a missing explicit
//     file is an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, explicit bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return DefaultMainConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &MainConfig{
		Brand: BrandConfig{Logo: DefaultLogoURL},
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Company.Name == "" {
		config.Company.Name = "SUNRISE MENTORS PVT LTD"
	}
	if config.Company.AddressLine1 == "" {
		config.Company.AddressLine1 = "UNITECH CYBER PARK, Unit 007 - 008, GF,"
	}
	if config.Company.AddressLine2 == "" {
		config.Company.AddressLine2 = "Tower A, Sector 39, Gurugram, Haryana 122003"
	}
	if config.Invoice.StartNumber == 0 {
		config.Invoice.StartNumber = 1
	}
	if config.Invoice.Numbering == "" {
		config.Invoice.Numbering = string(NumberingSequential)
	}
	if config.Grouping.Order == "" {
		config.Grouping.Order = string(OrderFirstSeen)
	}
	if config.Input.Delimiter == "" {
		config.Input.Delimiter = ","
	}
	if config.Input.Encoding == "" {
		config.Input.Encoding = "UTF-8"
	}
	if config.Brand.FetchTimeout == 0 {
		config.Brand.FetchTimeout = 10 * time.Second
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "./output"
	}
	if config.Output.ArchiveName == "" {
		config.Output.ArchiveName = "Invoices.zip"
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.MaxUploadMB == 0 {
		config.Server.MaxUploadMB = 10
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if config.Invoice.StartNumber < 1 {
		return fmt.Errorf("invoice.start_number must be at least 1, got %d", config.Invoice.StartNumber)
	}
	if _, err := ParseNumbering(config.Invoice.Numbering); err != nil {
		return err
	}
	if _, err := ParseGroupOrder(config.Grouping.Order); err != nil {
		return err
	}
	if config.Invoice.Date != "" {
		if _, err := ParseDate(config.Invoice.Date); err != nil {
			return err
		}
	}
	switch strings.ToUpper(config.Input.Encoding) {
	case "UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252":
	default:
		return fmt.Errorf("unsupported input.encoding %q", config.Input.Encoding)
	}
	return nil
}

// =============================================================================
// RUN SETTINGS
// =============================================================================

// Settings derives the run settings from the file configuration. now supplies
// the issue date when none is configured.
func (c *MainConfig) Settings(now time.Time) (Settings, error) {
	numbering, err := ParseNumbering(c.Invoice.Numbering)
	if err != nil {
		return Settings{}, err
	}
	order, err := ParseGroupOrder(c.Grouping.Order)
	if err != nil {
		return Settings{}, err
	}

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if c.Invoice.Date != "" {
		date, err = ParseDate(c.Invoice.Date)
		if err != nil {
			return Settings{}, err
		}
	}

	settings := Settings{
		CompanyName:        c.Company.Name,
		AddressLine1:       c.Company.AddressLine1,
		AddressLine2:       c.Company.AddressLine2,
		InvoiceDate:        date,
		InvoiceNumberStart: c.Invoice.StartNumber,
		Numbering:          numbering,
		GroupOrder:         order,
	}
	return settings, settings.Validate()
}
