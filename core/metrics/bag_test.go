package metrics

import (
	"encoding/json"
	"testing"
)

func TestBagMissingMetricReadsZero(t *testing.T) {
	b := NewBag()
	if got := b.Get(ComputeSeconds); got != 0 {
		t.Errorf("Get on empty bag = %v, want 0", got)
	}
}

func TestBagClampsNegatives(t *testing.T) {
	b := NewBag()
	b.Set(StorageBytes, -5)
	if got := b.Get(StorageBytes); got != 0 {
		t.Errorf("Set(-5) stored %v, want 0", got)
	}

	b.Add(StorageBytes, 10)
	b.Add(StorageBytes, -3)
	if got := b.Get(StorageBytes); got != 10 {
		t.Errorf("Add(-3) changed value to %v, want 10", got)
	}
}

func TestBagIsZero(t *testing.T) {
	b := NewBag()
	b.Set(ComputeSeconds, 0)
	if !b.IsZero() {
		t.Error("bag with only zero values should be zero")
	}
	b.Set(ActiveSeconds, 1)
	if b.IsZero() {
		t.Error("bag with a positive value should not be zero")
	}
}

// fakeExtractor is a stand-in used only to exercise the registry
type fakeExtractor struct {
	version string
}

func (f *fakeExtractor) Version() string { return f.version }
func (f *fakeExtractor) Extract(raw json.RawMessage) (Bag, error) {
	return NewBag(), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeExtractor{version: "v9"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := r.Get("v9"); !ok {
		t.Error("Get(v9) = not found, want registered extractor")
	}
	if _, ok := r.Get("v0"); ok {
		t.Error("Get(v0) found an extractor, want none")
	}
}

func TestRegistryRejectsDuplicateVersion(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeExtractor{version: "v9"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(&fakeExtractor{version: "v9"}); err == nil {
		t.Error("duplicate Register succeeded, want error")
	}
}

func TestRegistryVersionsSorted(t *testing.T) {
	r := NewRegistry()
	for _, v := range []string{"v2", "v1"} {
		if err := r.Register(&fakeExtractor{version: v}); err != nil {
			t.Fatalf("Register(%s): %v", v, err)
		}
	}

	got := r.Versions()
	if len(got) != 2 || got[0] != "v1" || got[1] != "v2" {
		t.Errorf("Versions = %v, want [v1 v2]", got)
	}
}
