package translation

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParsePairs(t *testing.T) {
	t.Parallel()

	catalog, err := ParsePairs([]string{"en-fr", "EN-DE", "JA-EN", " DE-FR "})
	if err != nil {
		t.Fatalf("parse pairs: %v", err)
	}

	if got := catalog.Sources(); !reflect.DeepEqual(got, []string{"DE", "EN", "JA"}) {
		t.Fatalf("unexpected sources: %v", got)
	}
	if got := catalog.AllTargets(); !reflect.DeepEqual(got, []string{"DE", "EN", "FR"}) {
		t.Fatalf("unexpected targets: %v", got)
	}
	if !catalog.HasTarget("en") || catalog.HasTarget("JA") || catalog.HasTarget("") {
		t.Fatalf("unexpected HasTarget results")
	}
	if !catalog.HasSource("ja") || catalog.HasSource("FR") {
		t.Fatalf("unexpected HasSource results")
	}
}

func TestCatalogFilter(t *testing.T) {
	t.Parallel()

	catalog, err := ParsePairs([]string{"EN-FR", "EN-DE", "JA-EN"})
	if err != nil {
		t.Fatalf("parse pairs: %v", err)
	}

	if got := catalog.Filter(nil).Map(); len(got) != 2 {
		t.Fatalf("empty allow-list should keep everything, got %v", got)
	}
	filtered := catalog.Filter([]string{"en", "KO"})
	if got, want := filtered.Map(), map[string][]string{"EN": {"DE", "FR"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected filtered catalog: got %v want %v", got, want)
	}
	if !catalog.HasSource("JA") {
		t.Fatalf("filter must not modify the original catalog")
	}
	if !catalog.Filter([]string{"KO"}).IsEmpty() {
		t.Fatalf("filtering to an unknown source should empty the catalog")
	}
}

func TestCatalogMarshalJSON(t *testing.T) {
	t.Parallel()

	catalog, err := ParsePairs([]string{"EN-FR", "EN-DE"})
	if err != nil {
		t.Fatalf("parse pairs: %v", err)
	}
	raw, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"EN":["DE","FR"]}` {
		t.Fatalf("unexpected JSON: %s", raw)
	}
}
