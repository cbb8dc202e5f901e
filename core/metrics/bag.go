// Package metrics normalizes provider usage payloads into named numeric
// quantities. Extractors are versioned per API generation and registered
// like any other plugin.
package metrics

// Canonical metric names. Extractors translate provider field names into
// these; the pricing model reads only these.
const (
	ComputeSeconds = "compute_seconds"
	ActiveSeconds  = "active_seconds"
	WrittenBytes   = "written_bytes"
	StorageBytes   = "storage_bytes"
	TransferBytes  = "transfer_bytes"
	BranchCount    = "branch_count"
	RestoreBytes   = "restore_bytes"
)

// Bag maps canonical metric names to quantities. Missing metrics read as
// zero, never null; values are never negative.
type Bag map[string]float64

// NewBag returns an empty bag
func NewBag() Bag {
	return make(Bag)
}

// Get returns the metric value, zero when absent
func (b Bag) Get(name string) float64 {
	return b[name]
}

// Set stores a value. Negative inputs clamp to zero so a malformed payload
// can never turn into a negative charge quantity.
func (b Bag) Set(name string, value float64) {
	if value < 0 {
		value = 0
	}
	b[name] = value
}

// Add accumulates into a metric with the same clamping as Set
func (b Bag) Add(name string, value float64) {
	if value < 0 {
		value = 0
	}
	b[name] += value
}

// IsZero reports whether every metric in the bag is zero
func (b Bag) IsZero() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
