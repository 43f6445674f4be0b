// Package netfile reads project networks from disk: the bracketed text
// notation, YAML and JSON. Every format yields the same Definition.
package netfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
	"github.com/joshharrison/pathloom/internal/tracker"
)

// Definition is a parsed network file: the activity header, the precedence
// pairs and the optional execution log.
type Definition struct {
	Activities []network.Activity `json:"activities" yaml:"activities"`
	Edges      []network.Edge     `json:"precedence" yaml:"precedence"`
	Events     []tracker.DayEvent `json:"execution,omitempty" yaml:"execution,omitempty"`
}

// Load reads path, which must be a regular file, and parses it according
// to its extension: .yaml/.yml, .json, anything else as text notation.
func Load(path string) (*Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open network: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, schederr.Configf("%s is not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network: %w", err)
	}

	var def *Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		def, err = ParseYAML(data)
	case ".json":
		def, err = ParseJSON(data)
	default:
		def, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// validate applies the checks shared by all formats and collapses
// duplicate precedence pairs, keeping the first occurrence. Name and edge
// checks are the ones network.Build applies to the engine's input.
func (d *Definition) validate() error {
	n, err := network.Build(d.Activities, d.Edges)
	if err != nil {
		return err
	}
	if n.Precedence.Len() < len(d.Edges) {
		d.Edges = n.Precedence.Edges()
	}

	for _, ev := range d.Events {
		for _, name := range append(append([]string{}, ev.Started...), ev.Finished...) {
			if !n.Table.Has(name) {
				return schederr.Configf("execution day %d: %q is not in the header", ev.Day, name)
			}
		}
	}
	return nil
}
