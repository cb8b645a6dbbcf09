package main

import (
	"testing"

	"phishguard/internal/features"
)

func TestOrderedFeatures(t *testing.T) {
	got := orderedFeatures(features.Extract(defaultURLs[0]))
	names := features.Names()
	if len(got) != len(names) {
		t.Fatalf("got %d features, want %d", len(got), len(names))
	}
	for i, nv := range got {
		if nv.Name != names[i] {
			t.Errorf("position %d = %s, want %s", i, nv.Name, names[i])
		}
	}
	// https://www.google.com
	if got[0].Value != 22 || got[8].Value != 1 || got[9].Value != 1 {
		t.Errorf("unexpected values %v", got)
	}
}
