package jsondb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// Source implements importer.Source for the JSON card database. The path may
// name a single .json file or a directory of them. Each file becomes one set
// named after the file, unless its cards carry a set name.
type Source struct{}

// NewSource constructs a Source.
func NewSource() *Source { return &Source{} }

// Load reads every database file under path.
//
// Precondition: path must be a .json file or a directory holding at least one.
// Postcondition: returns one catalog file per non-empty set, or a non-nil error.
func (s *Source) Load(path string) ([]*card.File, []importer.Warning, error) {
	paths, err := jsonFiles(path)
	if err != nil {
		return nil, nil, err
	}
	var files []*card.File
	var warnings []importer.Warning
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", p, err)
		}
		cards, err := Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		set := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if len(cards) > 0 && cards[0].Set != "" {
			set = cards[0].Set
		}
		f, w := Convert(set, cards)
		warnings = append(warnings, w...)
		if len(f.Cards) == 0 {
			warnings = append(warnings, importer.Warning{Card: set, Message: "no importable cards"})
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, warnings, fmt.Errorf("no importable cards under %s", path)
	}
	return files, warnings, nil
}

func jsonFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source %q not accessible: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no .json files in %s", path)
	}
	sort.Strings(out)
	return out, nil
}
