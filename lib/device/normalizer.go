// Package device maps the free-text device names found in benchmark reports and
// cloud catalogs onto canonical device identities.
package device

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliases []byte

// indexSuffix matches the " #<index>" marker hashcat appends when enumerating devices.
var indexSuffix = regexp.MustCompile(`\s#\d+$`)

var (
	// ErrAliasConflict is returned when one raw name is claimed by two canonical devices.
	ErrAliasConflict = errors.New("alias maps to more than one canonical device")
	// ErrEmptyCanonical is returned for an alias table entry without a canonical name.
	ErrEmptyCanonical = errors.New("alias table entry has no canonical name")
)

// Entry is one canonical device and the raw names that refer to it.
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// AliasTable is the on-disk representation of the alias data.
type AliasTable struct {
	Devices []Entry `yaml:"devices"`
}

// Normalizer resolves raw device names. It is immutable after construction and
// safe for concurrent use.
type Normalizer struct {
	lookup    map[string]string
	canonical []string
}

// NewNormalizer builds a Normalizer from one or more alias tables. Later tables
// extend earlier ones; an alias claimed by two different canonical devices is an error.
func NewNormalizer(tables ...AliasTable) (*Normalizer, error) {
	n := &Normalizer{lookup: make(map[string]string)}

	for _, table := range tables {
		for _, entry := range table.Devices {
			if err := n.add(entry); err != nil {
				return nil, err
			}
		}
	}

	return n, nil
}

func (n *Normalizer) add(entry Entry) error {
	canonical := strings.TrimSpace(entry.Canonical)
	if canonical == "" {
		return ErrEmptyCanonical
	}

	if _, known := n.lookup[canonical]; !known {
		n.canonical = append(n.canonical, canonical)
	}

	// A canonical name is always an alias of itself so normalization is idempotent.
	for _, alias := range append([]string{canonical}, entry.Aliases...) {
		if existing, ok := n.lookup[alias]; ok && existing != canonical {
			return fmt.Errorf("%w: %q (%s, %s)", ErrAliasConflict, alias, existing, canonical)
		}

		n.lookup[alias] = canonical
	}

	return nil
}

// ParseAliasTable decodes YAML alias data.
func ParseAliasTable(data []byte) (AliasTable, error) {
	var table AliasTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return AliasTable{}, fmt.Errorf("failed to decode alias table: %w", err)
	}

	return table, nil
}

// Default returns a Normalizer over the embedded alias table.
func Default() *Normalizer {
	table, err := ParseAliasTable(defaultAliases)
	if err != nil {
		panic(err)
	}

	n, err := NewNormalizer(table)
	if err != nil {
		panic(err)
	}

	return n
}

// LoadAliasFile returns a Normalizer over the embedded table extended by the
// YAML file at path. An empty path yields the default Normalizer.
func LoadAliasFile(path string) (*Normalizer, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %q: %w", path, err)
	}

	extra, err := ParseAliasTable(data)
	if err != nil {
		return nil, err
	}

	base, err := ParseAliasTable(defaultAliases)
	if err != nil {
		return nil, err
	}

	return NewNormalizer(base, extra)
}

// StripIndex removes a trailing " #<index>" enumeration marker.
func StripIndex(raw string) string {
	return indexSuffix.ReplaceAllString(raw, "")
}

// Normalize maps raw onto its canonical device. The second result is false
// when no alias matches; callers exclude such devices from joins.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	canonical, ok := n.lookup[StripIndex(raw)]

	return canonical, ok
}

// Canonical returns the canonical device names in table order.
func (n *Normalizer) Canonical() []string {
	out := make([]string, len(n.canonical))
	copy(out, n.canonical)

	return out
}

// Detect returns the longest canonical device name contained in text, which is
// how a catalog page that never spells out an alias is attributed to a device.
// Ties keep the earlier table entry.
func (n *Normalizer) Detect(text string) (string, bool) {
	best := ""

	for _, name := range n.canonical {
		if len(name) > len(best) && strings.Contains(text, name) {
			best = name
		}
	}

	return best, best != ""
}
