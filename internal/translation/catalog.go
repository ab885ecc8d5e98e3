package translation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"horse.fit/quill/internal/language"
)

// Catalog maps a source language code to the target codes the provider
// supports for it. A Catalog is never modified after it is built.
type Catalog struct {
	pairs map[string]map[string]struct{}
}

// ParsePairs builds a catalog from "SRC-TGT" pairs. Any entry that does not
// split into exactly two valid codes is rejected.
func ParsePairs(pairs []string) (Catalog, error) {
	catalog := Catalog{pairs: make(map[string]map[string]struct{})}
	for _, raw := range pairs {
		parts := strings.Split(strings.TrimSpace(raw), "-")
		if len(parts) != 2 {
			return Catalog{}, fmt.Errorf("%w: %q", ErrMalformedPair, raw)
		}
		source := language.CatalogCode(parts[0])
		target := language.CatalogCode(parts[1])
		if source == "" || target == "" {
			return Catalog{}, fmt.Errorf("%w: %q", ErrMalformedPair, raw)
		}

		targets, ok := catalog.pairs[source]
		if !ok {
			targets = make(map[string]struct{})
			catalog.pairs[source] = targets
		}
		targets[target] = struct{}{}
	}
	return catalog, nil
}

// Filter keeps only the listed source languages. An empty list keeps everything.
func (c Catalog) Filter(sources []string) Catalog {
	if len(sources) == 0 {
		return c
	}

	allowed := make(map[string]struct{}, len(sources))
	for _, source := range sources {
		if code := language.CatalogCode(source); code != "" {
			allowed[code] = struct{}{}
		}
	}

	filtered := Catalog{pairs: make(map[string]map[string]struct{}, len(allowed))}
	for source, targets := range c.pairs {
		if _, ok := allowed[source]; ok {
			filtered.pairs[source] = targets
		}
	}
	return filtered
}

// IsEmpty reports whether the catalog has no source languages.
func (c Catalog) IsEmpty() bool {
	return len(c.pairs) == 0
}

// HasSource reports whether code is a known source language.
func (c Catalog) HasSource(code string) bool {
	_, ok := c.pairs[language.CatalogCode(code)]
	return ok
}

// HasTarget reports whether code is a target of any source language.
func (c Catalog) HasTarget(code string) bool {
	normalized := language.CatalogCode(code)
	if normalized == "" {
		return false
	}
	for _, targets := range c.pairs {
		if _, ok := targets[normalized]; ok {
			return true
		}
	}
	return false
}

// Sources returns the sorted source language codes.
func (c Catalog) Sources() []string {
	sources := make([]string, 0, len(c.pairs))
	for source := range c.pairs {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Targets returns the sorted target codes for source, or none if unknown.
func (c Catalog) Targets(source string) []string {
	targets := c.pairs[language.CatalogCode(source)]
	out := make([]string, 0, len(targets))
	for target := range targets {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// AllTargets flattens the catalog into the sorted set of target codes.
func (c Catalog) AllTargets() []string {
	seen := make(map[string]struct{})
	for _, targets := range c.pairs {
		for target := range targets {
			seen[target] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for target := range seen {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the catalog with sorted target lists.
func (c Catalog) Map() map[string][]string {
	out := make(map[string][]string, len(c.pairs))
	for source := range c.pairs {
		out[source] = c.Targets(source)
	}
	return out
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}
