// Package config holds the options of a label sheet layout pass and loads
// them from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

// Common errors
var (
	ErrConfigurationError = errors.New("configuration error")
	ErrInvalidValue       = errors.New("invalid value")
	ErrUnexpectedField    = errors.New("unexpected field in configuration")
)

// ConfigError represents a configuration error with context.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConfigurationError
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// CustomPreset is the preset name that selects the numeric options.
const CustomPreset = "custom"

// StyleConfig is the look of the label outlines.
type StyleConfig struct {
	// Stroke is the outline colour.
	Stroke string `yaml:"stroke" json:"stroke"`

	// Fill is the fill colour, "none" for no fill.
	Fill string `yaml:"fill" json:"fill"`

	// StrokeWidth is the outline width in millimetres.
	StrokeWidth float64 `yaml:"stroke-width" json:"stroke_width"`
}

// Options contains everything a layout pass needs.
type Options struct {
	// Preset selects a catalog preset, overriding all numeric options.
	// Empty or "custom" uses the numeric options.
	Preset string `yaml:"preset" json:"preset,omitempty"`

	// Unit is the unit of all custom lengths and of Inset.
	Unit string `yaml:"unit" json:"unit"`

	// Page is the paper of a custom sheet. Empty leaves the page alone.
	Page string `yaml:"page" json:"page,omitempty"`

	MarginLeft float64 `yaml:"margin-left" json:"margin_left"`
	MarginTop  float64 `yaml:"margin-top" json:"margin_top"`
	SizeX      float64 `yaml:"size-x" json:"size_x"`
	SizeY      float64 `yaml:"size-y" json:"size_y"`
	PitchX     float64 `yaml:"pitch-x" json:"pitch_x"`
	PitchY     float64 `yaml:"pitch-y" json:"pitch_y"`
	CountX     int     `yaml:"count-x" json:"count_x"`
	CountY     int     `yaml:"count-y" json:"count_y"`
	Shape      string  `yaml:"shape" json:"shape"`

	// Inset is the distance of inset guides from the label edges.
	Inset float64 `yaml:"inset" json:"inset"`

	DeleteExistingGuides bool `yaml:"delete-existing-guides" json:"delete_existing_guides"`
	DrawEdgeGuides       bool `yaml:"draw-edge-guides" json:"draw_edge_guides"`
	DrawInsetGuides      bool `yaml:"draw-inset-guides" json:"draw_inset_guides"`
	DrawShapes           bool `yaml:"draw-shapes" json:"draw_shapes"`
	ResizePage           bool `yaml:"resize-page" json:"resize_page"`

	EdgeGuideColor  string `yaml:"edge-guide-color" json:"edge_guide_color"`
	InsetGuideColor string `yaml:"inset-guide-color" json:"inset_guide_color"`

	Style StyleConfig `yaml:"style" json:"style"`
}

// DefaultOptions returns the options of a 5 x 7 sheet of 37 mm square
// labels, drawing edge guides only. The default shape "none" never
// produces outlines.
func DefaultOptions() Options {
	return Options{
		Preset:          CustomPreset,
		Unit:            string(layout.Mm),
		MarginLeft:      8.5,
		MarginTop:       13,
		SizeX:           37,
		SizeY:           37,
		PitchX:          39,
		PitchY:          39,
		CountX:          5,
		CountY:          7,
		Shape:           "none",
		Inset:           5,
		DrawEdgeGuides:  true,
		EdgeGuideColor:  "#3f3fff",
		InsetGuideColor: "#ff3f3f",
		Style: StyleConfig{
			Stroke:      "#000000",
			Fill:        "none",
			StrokeWidth: 0.25,
		},
	}
}

// IsCustom reports whether the numeric options describe the sheet.
func (o *Options) IsCustom() bool {
	return o.Preset == "" || strings.EqualFold(o.Preset, CustomPreset)
}

// Validate checks the options that do not depend on the preset catalog.
func (o *Options) Validate() error {
	if _, err := layout.ParseUnit(o.Unit); err != nil {
		return &ConfigError{Field: "unit", Message: err.Error(), Err: err}
	}
	if o.IsCustom() && o.Page != "" {
		if _, err := layout.LookupPageSize(o.Page); err != nil {
			return &ConfigError{Field: "page", Message: err.Error(), Err: err}
		}
	}
	if o.Inset < 0 {
		return &ConfigError{Field: "inset", Message: "must not be negative", Err: ErrInvalidValue}
	}
	if o.Style.StrokeWidth < 0 {
		return &ConfigError{Field: "style.stroke-width", Message: "must not be negative", Err: ErrInvalidValue}
	}
	if o.DrawEdgeGuides && o.EdgeGuideColor == "" {
		return NewConfigError("edge-guide-color", "required when drawing edge guides")
	}
	if o.DrawInsetGuides && o.InsetGuideColor == "" {
		return NewConfigError("inset-guide-color", "required when drawing inset guides")
	}
	return nil
}

// CustomSpec builds the physical grid spec described by the numeric
// options.
func (o *Options) CustomSpec() (grid.Spec, error) {
	unit, err := layout.ParseUnit(o.Unit)
	if err != nil {
		return grid.Spec{}, err
	}
	spec := grid.Spec{
		Unit:   unit,
		Margin: grid.Point{X: o.MarginLeft, Y: o.MarginTop},
		Size:   grid.Point{X: o.SizeX, Y: o.SizeY},
		Pitch:  grid.Point{X: o.PitchX, Y: o.PitchY},
		Count:  grid.Count{X: o.CountX, Y: o.CountY},
		Shape:  grid.ParseShape(o.Shape),
	}
	if o.Page != "" {
		spec.Page = layout.Named(o.Page)
	}
	return spec, nil
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level,omitempty"`

	// Format is the log format (text, json).
	Format string `yaml:"format" json:"format,omitempty"`

	// Output is the log output (stdout, stderr, or file path).
	Output string `yaml:"output" json:"output,omitempty"`
}

// SetDefaults sets default values for logging configuration.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// NewLogger builds the logger described by the configuration. The returned
// function closes the log file, if one was opened.
func (c *LoggingConfig) NewLogger(stdout, stderr io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, nil, &ConfigError{Field: "logging.level", Message: err.Error(), Err: ErrInvalidValue}
	}

	closer := func() error { return nil }
	var w io.Writer
	switch c.Output {
	case "", "stderr":
		w = stderr
	case "stdout":
		w = stdout
	default:
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), closer, nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), closer, nil
	}
	_ = closer()
	return nil, nil, &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Format), Err: ErrInvalidValue}
}

// AppConfig contains the complete application configuration.
type AppConfig struct {
	// Sheet contains the layout options.
	Sheet Options `yaml:"sheet" json:"sheet"`

	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DefaultAppConfig returns the configuration used without a config file.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{Sheet: DefaultOptions()}
	cfg.Logging.SetDefaults()
	return cfg
}

// LoadAppConfig loads the complete application configuration from a file.
func LoadAppConfig(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseAppConfig(data)
}

// ParseAppConfig parses configuration from YAML data. Keys that are not
// present keep their default values; unknown keys are rejected.
func ParseAppConfig(data []byte) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedField, err)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Logging.SetDefaults()
	if err := cfg.Sheet.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromMap loads configuration from a map.
func LoadConfigFromMap(data map[string]any) (*AppConfig, error) {
	// Marshal to YAML then unmarshal to struct
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config map: %w", err)
	}
	return ParseAppConfig(yamlData)
}
