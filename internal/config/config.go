package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"pvcli/pkg/contracts/domain"
)

// validate checks struct-level constraints declared via `validate` tags.
// Field names in messages use the yaml tag so they match the config file.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Config represents the complete pipeline configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Columns  ColumnsConfig  `yaml:"columns" envconfig:"COLUMNS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes the violations table to load
type InputConfig struct {
	Path      string `yaml:"path" envconfig:"PATH"`
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET"`
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
}

// ColumnsConfig maps the required table columns to their header names.
// Defaults follow the NYC citation export headers.
type ColumnsConfig struct {
	Precinct  string `yaml:"precinct" envconfig:"PRECINCT" validate:"required"`
	Code      string `yaml:"code" envconfig:"CODE" validate:"required"`
	BodyType  string `yaml:"body_type" envconfig:"BODY_TYPE" validate:"required"`
	Make      string `yaml:"make" envconfig:"MAKE" validate:"required"`
	Year      string `yaml:"year" envconfig:"YEAR" validate:"required"`
	IssueDate string `yaml:"issue_date" envconfig:"ISSUE_DATE" validate:"required"`
}

// Required returns the six column names every input table must carry,
// in a stable order.
func (c ColumnsConfig) Required() []string {
	return []string{c.Precinct, c.Code, c.BodyType, c.Make, c.Year, c.IssueDate}
}

// Categorical returns the columns expanded into indicator columns,
// in the order the encoder consumes them. The target column is excluded.
func (c ColumnsConfig) Categorical() []string {
	return []string{c.Code, c.BodyType, c.Make}
}

// PipelineConfig contains the prediction-stage knobs.
//
// SplitSeed and ModelSeed are deliberately independent: the first governs
// only train/test row membership, the second only the ensemble randomness,
// so either can be varied while holding the other fixed.
type PipelineConfig struct {
	TestFraction    float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" validate:"gt=0,lt=1"`
	SplitSeed       int64   `yaml:"split_seed" envconfig:"SPLIT_SEED"`
	ModelSeed       int64   `yaml:"model_seed" envconfig:"MODEL_SEED"`
	Estimators      int     `yaml:"estimators" envconfig:"ESTIMATORS" validate:"min=1"`
	MaxDepth        int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"min=1"`
	MinSamplesSplit int     `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT" validate:"min=2"`
	TopMakes        int     `yaml:"top_makes" envconfig:"TOP_MAKES" validate:"min=1"`
	Workers         int     `yaml:"workers" envconfig:"WORKERS" validate:"min=0"`
}

// PathsConfig contains output directory configuration
type PathsConfig struct {
	ArtifactsDir string `yaml:"artifacts_dir" envconfig:"ARTIFACTS_DIR" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. configPath
// may be empty, in which case common locations are probed.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if file := resolveConfigFile(configPath); file != "" {
		if err := loadFromFile(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", file, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("config file %s does not exist", configPath)
	}

	if err := envconfig.Process("PV", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// resolveConfigFile returns the config file to use, or "" for none.
// An explicit path wins; otherwise common locations are probed.
func resolveConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		messages := make([]string, 0, len(errs))
		for _, fe := range errs {
			messages = append(messages, formatFieldError(fe))
		}
		return fmt.Errorf("%s", strings.Join(messages, "; "))
	}

	// Cross-field rules the tags cannot express
	if c.Input.Format == "xlsx" && c.Input.Sheet == "" {
		return fmt.Errorf("input sheet must be set for xlsx format")
	}

	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		if c.Logging.FilePath == "" {
			return fmt.Errorf("logging file_path must be set for output %q", c.Logging.Output)
		}
	}

	return nil
}

// formatFieldError renders a single validation failure readably
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// EnsureDirectories creates the output directories if missing
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ArtifactsDir, c.Paths.ReportsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format:    "csv",
			Sheet:     "Sheet1",
			Delimiter: ",",
		},
		Columns: ColumnsConfig{
			Precinct:  domain.ColumnPrecinct,
			Code:      domain.ColumnViolationCode,
			BodyType:  domain.ColumnBodyType,
			Make:      domain.ColumnMake,
			Year:      domain.ColumnVehicleYear,
			IssueDate: domain.ColumnIssueDate,
		},
		Pipeline: PipelineConfig{
			TestFraction:    0.2,
			SplitSeed:       42,
			ModelSeed:       42,
			Estimators:      100,
			MaxDepth:        10,
			MinSamplesSplit: 2,
			TopMakes:        10,
			Workers:         0,
		},
		Paths: PathsConfig{
			ArtifactsDir: "artifacts",
			ReportsDir:   "reports",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: "logs/pvcli.log",
		},
	}
}
