// Package config provides Viper-based configuration loading for the card
// battle engine and its tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// MatchConfig holds the rules of a match.
type MatchConfig struct {
	DeckSize    int `mapstructure:"deck_size"`
	OpeningHand int `mapstructure:"opening_hand"`
	PointsToWin int `mapstructure:"points_to_win"`
	// EnergyMode is "fixed" or "random".
	EnergyMode string `mapstructure:"energy_mode"`
	// FixedElement is the element granted in fixed mode and the random-mode fallback.
	FixedElement    string `mapstructure:"fixed_element"`
	MaxMulligans    int    `mapstructure:"max_mulligans"`
	CheckInvariants bool   `mapstructure:"check_invariants"`
	// IdleTimeout abandons a hosted match after this long without a turn;
	// zero disables it.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// ContentConfig locates the YAML and Lua content.
type ContentConfig struct {
	CardsDir    string `mapstructure:"cards_dir"`
	DecksDir    string `mapstructure:"decks_dir"`
	ScriptsDir  string `mapstructure:"scripts_dir"`
	StatusesDir string `mapstructure:"statuses_dir"`
	// AIDir holds planner domains; empty uses the built-in domain only.
	AIDir string `mapstructure:"ai_dir"`
	// ScriptInstructionLimit caps the Lua instructions of one effect call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// SimulationConfig controls bot-vs-bot batches.
type SimulationConfig struct {
	Games    int    `mapstructure:"games"`
	Workers  int    `mapstructure:"workers"`
	Seed     uint64 `mapstructure:"seed"`
	MaxTurns int    `mapstructure:"max_turns"`
	// DeckA and DeckB name the decks played by seat 0 and seat 1.
	DeckA string `mapstructure:"deck_a"`
	DeckB string `mapstructure:"deck_b"`
	// BotA and BotB name the planner domains driving each seat.
	BotA string `mapstructure:"bot_a"`
	BotB string `mapstructure:"bot_b"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Match      MatchConfig      `mapstructure:"match"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMatch(c.Match); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	if m.DeckSize < 1 {
		errs = append(errs, fmt.Sprintf("match.deck_size must be >= 1, got %d", m.DeckSize))
	}
	if m.OpeningHand < 1 || m.OpeningHand > m.DeckSize {
		errs = append(errs, fmt.Sprintf("match.opening_hand must be 1-%d, got %d", m.DeckSize, m.OpeningHand))
	}
	if m.PointsToWin < 1 {
		errs = append(errs, fmt.Sprintf("match.points_to_win must be >= 1, got %d", m.PointsToWin))
	}
	validModes := map[string]bool{"fixed": true, "random": true}
	if !validModes[m.EnergyMode] {
		errs = append(errs, fmt.Sprintf("match.energy_mode must be one of [fixed, random], got %q", m.EnergyMode))
	}
	if m.FixedElement == "" {
		errs = append(errs, "match.fixed_element must not be empty")
	}
	if m.MaxMulligans < 0 {
		errs = append(errs, fmt.Sprintf("match.max_mulligans must be >= 0, got %d", m.MaxMulligans))
	}
	if m.IdleTimeout < 0 {
		errs = append(errs, fmt.Sprintf("match.idle_timeout must be >= 0, got %s", m.IdleTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.CardsDir == "" {
		errs = append(errs, "content.cards_dir must not be empty")
	}
	if c.DecksDir == "" {
		errs = append(errs, "content.decks_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Games < 0 {
		errs = append(errs, fmt.Sprintf("simulation.games must be >= 0, got %d", s.Games))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CARDCLASH_ prefix
	v.SetEnvPrefix("CARDCLASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("match.deck_size", 20)
	v.SetDefault("match.opening_hand", 5)
	v.SetDefault("match.points_to_win", 3)
	v.SetDefault("match.energy_mode", "fixed")
	v.SetDefault("match.fixed_element", "grass")
	v.SetDefault("match.max_mulligans", 100)
	v.SetDefault("match.check_invariants", false)
	v.SetDefault("match.idle_timeout", "0s")

	v.SetDefault("content.cards_dir", "content/cards")
	v.SetDefault("content.decks_dir", "content/decks")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.statuses_dir", "")
	v.SetDefault("content.ai_dir", "")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("simulation.games", 100)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.max_turns", 200)
	v.SetDefault("simulation.bot_a", "aggro")
	v.SetDefault("simulation.bot_b", "aggro")
}
