// Package importer converts third-party card databases into catalog YAML.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/cardclash/internal/game/card"
)

// Importer orchestrates card import from a Source to an output directory.
type Importer struct {
	source Source
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source. A nil logger is
// replaced by a no-op logger.
//
// Precondition: source must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{source: source, logger: logger}
}

// Run loads sets from sourcePath, validates each, and writes them as catalog
// YAML files to outputDir. Each output file is named <set>.yaml.
//
// Precondition: sourcePath must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: one catalog YAML per set is written to outputDir, or an
// error is returned. The returned warnings come from the source.
func (imp *Importer) Run(sourcePath, outputDir string) ([]Warning, error) {
	overall := time.Now()

	files, warnings, err := imp.source.Load(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	for _, w := range warnings {
		imp.logger.Warn("reduced fidelity", zap.String("card", w.Card), zap.String("reason", w.Message))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return warnings, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	for _, f := range files {
		data, err := yaml.Marshal(f)
		if err != nil {
			return warnings, fmt.Errorf("serialising set %q: %w", f.Set, err)
		}

		// The output must load exactly as the engine will load it.
		if err := card.NewCatalog().LoadFromBytes(data); err != nil {
			return warnings, fmt.Errorf("set %q failed validation: %w", f.Set, err)
		}

		outPath := filepath.Join(outputDir, NameToID(f.Set)+".yaml")
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return warnings, fmt.Errorf("writing set %q to %s: %w", f.Set, outPath, err)
		}
		imp.logger.Info("wrote set",
			zap.String("path", outPath),
			zap.Int("cards", len(f.Cards)),
		)
	}

	imp.logger.Info("import finished",
		zap.Int("sets", len(files)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(overall).Round(time.Millisecond)),
	)
	return warnings, nil
}
