package pressable

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agiangrant/pressable/retained"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file the CLI reads when no --config is given.
const DefaultConfigFile = "pressable.toml"

var (
	// ErrUnsupportedConfigFormat is returned for config paths that are not
	// .toml, .yaml or .yml.
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")

	// ErrInvalidFadeDuration is returned for a negative or non-finite fade.
	ErrInvalidFadeDuration = errors.New("fade duration must not be negative")

	ErrUnknownTransition = errors.New("unknown transition")
	ErrUnknownEasing     = errors.New("unknown easing")
)

// Config is the pressable.toml (or .yaml) file.
type Config struct {
	Loop    LoopConfig     `toml:"loop" yaml:"loop"`
	Buttons []ButtonConfig `toml:"buttons" yaml:"buttons"`
	Log     LogConfig      `toml:"log" yaml:"log"`
}

type LoopConfig struct {
	TargetFPS int     `toml:"target_fps" yaml:"target_fps"`
	TimeScale float64 `toml:"time_scale" yaml:"time_scale"`
	// Resolve dark: class variants
	DarkMode bool `toml:"dark_mode" yaml:"dark_mode"`

	// SubmitKeys replaces the default submit keys for every button when set.
	SubmitKeys []string `toml:"submit_keys,omitempty" yaml:"submit_keys,omitempty"`
}

// ButtonConfig describes one button.
type ButtonConfig struct {
	Label string `toml:"label" yaml:"label"`

	// Classes are background color classes, e.g. "bg-blue-500 hover:bg-blue-600".
	Classes string `toml:"classes" yaml:"classes"`

	// FadeDuration is the Pressed hold after a submit, in seconds.
	FadeDuration    float64 `toml:"fade_duration" yaml:"fade_duration"`
	ColorMultiplier float64 `toml:"color_multiplier" yaml:"color_multiplier"`
	Interactable    bool    `toml:"interactable" yaml:"interactable"`

	// SettlePolicy is "overlap" or "supersede".
	SettlePolicy string `toml:"settle_policy" yaml:"settle_policy"`

	// Transition is "tint" or "none".
	Transition string `toml:"transition" yaml:"transition"`
	Easing     string `toml:"easing" yaml:"easing"`
}

// buttonEntry is a [[buttons]] entry as read from disk. Nil fields were
// absent and take their value from DefaultButton.
type buttonEntry struct {
	Label           *string  `toml:"label" yaml:"label"`
	Classes         *string  `toml:"classes" yaml:"classes"`
	FadeDuration    *float64 `toml:"fade_duration" yaml:"fade_duration"`
	ColorMultiplier *float64 `toml:"color_multiplier" yaml:"color_multiplier"`
	Interactable    *bool    `toml:"interactable" yaml:"interactable"`
	SettlePolicy    *string  `toml:"settle_policy" yaml:"settle_policy"`
	Transition      *string  `toml:"transition" yaml:"transition"`
	Easing          *string  `toml:"easing" yaml:"easing"`
}

// configFile mirrors Config with button entries that remember which keys
// were set.
type configFile struct {
	Loop    LoopConfig    `toml:"loop" yaml:"loop"`
	Buttons []buttonEntry `toml:"buttons" yaml:"buttons"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// resolve merges the entry over the default button. Entries without a label
// are named "Button N" after their position.
func (e buttonEntry) resolve(index int) ButtonConfig {
	label := fmt.Sprintf("Button %d", index+1)
	if e.Label != nil && *e.Label != "" {
		label = *e.Label
	}
	b := DefaultButton(label)
	override(&b.Classes, e.Classes)
	override(&b.FadeDuration, e.FadeDuration)
	override(&b.ColorMultiplier, e.ColorMultiplier)
	override(&b.Interactable, e.Interactable)
	override(&b.SettlePolicy, e.SettlePolicy)
	override(&b.Transition, e.Transition)
	override(&b.Easing, e.Easing)
	return b
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// LogConfig selects the log level, format and destination.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File is appended to; empty means stderr
	File string `toml:"file" yaml:"file"`
}

// DefaultButton returns the settings used for buttons the file leaves unset.
func DefaultButton(label string) ButtonConfig {
	return ButtonConfig{
		Label:           label,
		Classes:         "bg-slate-200 hover:bg-slate-100 active:bg-slate-400 selected:bg-sky-200 disabled:bg-slate-300/50",
		FadeDuration:    0.1,
		ColorMultiplier: 1,
		Interactable:    true,
		SettlePolicy:    retained.SettleOverlap.String(),
		Transition:      "tint",
		Easing:          "linear",
	}
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	cancel := DefaultButton("Cancel")
	cancel.Classes = "bg-red-200 hover:bg-red-100 active:bg-red-400 selected:bg-amber-200"
	disabled := DefaultButton("Disabled")
	disabled.Interactable = false

	return Config{
		Loop: LoopConfig{
			TargetFPS: 60,
			TimeScale: 1,
		},
		Buttons: []ButtonConfig{DefaultButton("OK"), cancel, disabled},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads path, choosing the decoder by extension. Values missing
// from the file keep their defaults, including keys missing from a button
// entry. A file that lists buttons replaces the default buttons. If the file
// doesn't exist, returns the default config.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	format, err := formatFor(path)
	if err != nil {
		return config, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file := configFile{Loop: config.Loop, Log: config.Log}
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &file)
	case "yaml":
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config.Loop = file.Loop
	config.Log = file.Log
	if file.Buttons != nil {
		config.Buttons = make([]ButtonConfig, len(file.Buttons))
		for i, e := range file.Buttons {
			config.Buttons[i] = e.resolve(i)
		}
	}
	return config, nil
}

// SaveConfig writes config to path in the format its extension names.
func SaveConfig(path string, config Config) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "toml":
		data, err = toml.Marshal(config)
	case "yaml":
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, path)
	}
}

// Validate reports every configuration error at once.
func (c Config) Validate() error {
	var errs []error
	if c.Loop.TargetFPS < 1 || c.Loop.TargetFPS > 1000 {
		errs = append(errs, fmt.Errorf("loop.target_fps: %d out of range 1..1000", c.Loop.TargetFPS))
	}
	if !(c.Loop.TimeScale > 0) || math.IsInf(c.Loop.TimeScale, 1) {
		errs = append(errs, fmt.Errorf("loop.time_scale: %v must be a positive number", c.Loop.TimeScale))
	}
	for _, k := range c.Loop.SubmitKeys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, errors.New("loop.submit_keys: empty key"))
			break
		}
	}
	for i, b := range c.Buttons {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("buttons[%d] %q: %w", i, b.Label, err))
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: %q is not text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Validate reports the button's configuration errors.
func (b ButtonConfig) Validate() error {
	var errs []error
	if b.FadeDuration < 0 || math.IsNaN(b.FadeDuration) || math.IsInf(b.FadeDuration, 0) {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidFadeDuration, b.FadeDuration))
	}
	if b.ColorMultiplier < 0 || math.IsNaN(b.ColorMultiplier) || math.IsInf(b.ColorMultiplier, 0) {
		errs = append(errs, fmt.Errorf("color_multiplier: %v must be a non-negative number", b.ColorMultiplier))
	}
	if _, err := retained.ParseSettlePolicy(b.SettlePolicy); err != nil {
		errs = append(errs, err)
	}
	switch b.Transition {
	case "", "tint", "none":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownTransition, b.Transition))
	}
	if retained.EasingByName(b.Easing) == nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEasing, b.Easing))
	}
	return errors.Join(errs...)
}

// Retained converts the loop section.
func (c LoopConfig) Retained() retained.LoopConfig {
	return retained.LoopConfig{
		TargetFPS: c.TargetFPS,
		TimeScale: c.TimeScale,
	}
}

// Fade returns FadeDuration as a time.Duration.
func (b ButtonConfig) Fade() time.Duration {
	return time.Duration(b.FadeDuration * float64(time.Second))
}

// ColorBlock builds the tint table from Classes.
func (b ButtonConfig) ColorBlock(darkMode bool) retained.ColorBlock {
	block := retained.ColorBlockFromClasses(b.Classes, darkMode)
	block.ColorMultiplier = b.ColorMultiplier
	block.FadeDuration = b.Fade()
	return block
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
