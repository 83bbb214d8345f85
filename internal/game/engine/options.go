package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
)

// EnergyMode selects how the element of each turn's energy token is chosen.
type EnergyMode string

const (
	// EnergyFixed grants Options.FixedElement every turn.
	EnergyFixed EnergyMode = "fixed"
	// EnergyRandom draws uniformly among the elements of creatures left in
	// the player's deck, falling back to Options.FixedElement.
	EnergyRandom EnergyMode = "random"
)

// Options configures a match.
type Options struct {
	DeckSize        int
	OpeningHand     int
	PointsToWin     int
	EnergyMode      EnergyMode
	FixedElement    card.Element
	MaxMulligans    int
	CheckInvariants bool

	// Statuses holds the status rules; nil uses condition.DefaultRegistry.
	Statuses *condition.Registry
	// Scripts runs script effects; nil makes script effects fail.
	Scripts effect.ScriptRunner
	// Logger receives turn events at debug level; nil disables logging.
	Logger *zap.Logger
	// NewID mints card instance and match IDs; nil uses random UUIDs.
	NewID func() string
}

// DefaultOptions returns the standard rules: 20-card decks, 5-card opening
// hands, 3 points to win and fixed grass energy.
func DefaultOptions() Options {
	return Options{
		DeckSize:     20,
		OpeningHand:  5,
		PointsToWin:  3,
		EnergyMode:   EnergyFixed,
		FixedElement: card.Grass,
		MaxMulligans: 100,
	}
}

// OptionsFrom builds Options from the match section of the configuration.
func OptionsFrom(cfg config.MatchConfig) (Options, error) {
	el, err := card.ParseElement(cfg.FixedElement)
	if err != nil {
		return Options{}, fmt.Errorf("match.fixed_element: %w", err)
	}
	o := Options{
		DeckSize:        cfg.DeckSize,
		OpeningHand:     cfg.OpeningHand,
		PointsToWin:     cfg.PointsToWin,
		EnergyMode:      EnergyMode(cfg.EnergyMode),
		FixedElement:    el,
		MaxMulligans:    cfg.MaxMulligans,
		CheckInvariants: cfg.CheckInvariants,
	}
	return o, o.Validate()
}

// Validate checks the numeric and enumerated options.
func (o Options) Validate() error {
	var errs []error
	if o.DeckSize <= 0 {
		errs = append(errs, errors.New("deck size must be > 0"))
	}
	if o.OpeningHand <= 0 || o.OpeningHand > o.DeckSize {
		errs = append(errs, fmt.Errorf("opening hand must be in [1, %d]", o.DeckSize))
	}
	if o.PointsToWin <= 0 {
		errs = append(errs, errors.New("points to win must be > 0"))
	}
	if o.EnergyMode != EnergyFixed && o.EnergyMode != EnergyRandom {
		errs = append(errs, fmt.Errorf("unknown energy mode %q", o.EnergyMode))
	}
	if !o.FixedElement.Valid() {
		errs = append(errs, fmt.Errorf("invalid fixed element %q", o.FixedElement))
	}
	if o.MaxMulligans < 0 {
		errs = append(errs, errors.New("max mulligans must be >= 0"))
	}
	if len(errs) == 0 {
		return nil
	}
	return &ConfigurationError{Reason: errors.Join(errs...).Error()}
}

func (o Options) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.New().String()
}

// ConfigurationError reports a match that cannot be started.
type ConfigurationError struct {
	Seat   string // empty when the problem is not specific to one player
	Reason string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	if e.Seat == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Seat, e.Reason)
}
