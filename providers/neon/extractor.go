package neon

import (
	"encoding/json"

	"github.com/CruGlobal/datadog-custom-costs/core/metrics"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// Two generations of the consumption payload exist. v2 reports flat named
// fields; v1 reports a list of {name, value} pairs with storage split by
// branch type. Both land in the same canonical bag, so the rest of the
// pipeline never knows which generation fed it.

// extractorV2 handles the flat-field payload
type extractorV2 struct{}

func (extractorV2) Version() string { return "v2" }

func (extractorV2) Extract(raw json.RawMessage) (metrics.Bag, error) {
	var payload struct {
		ComputeTimeSeconds        float64 `json:"compute_time_seconds"`
		ActiveTimeSeconds         float64 `json:"active_time_seconds"`
		WrittenDataBytes          float64 `json:"written_data_bytes"`
		SyntheticStorageSizeBytes float64 `json:"synthetic_storage_size_bytes"`
		DataTransferBytes         float64 `json:"data_transfer_bytes"`
		BranchCount               float64 `json:"branch_count"`
		InstantRestoreBytes       float64 `json:"instant_restore_bytes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrapf(errors.TypeSchema, err, "malformed v2 consumption record")
	}

	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, payload.ComputeTimeSeconds)
	bag.Set(metrics.ActiveSeconds, payload.ActiveTimeSeconds)
	bag.Set(metrics.WrittenBytes, payload.WrittenDataBytes)
	bag.Set(metrics.StorageBytes, payload.SyntheticStorageSizeBytes)
	bag.Set(metrics.TransferBytes, payload.DataTransferBytes)
	bag.Set(metrics.BranchCount, payload.BranchCount)
	bag.Set(metrics.RestoreBytes, payload.InstantRestoreBytes)
	return bag, nil
}

// extractorV1 handles the array-of-pairs payload
type extractorV1 struct{}

func (extractorV1) Version() string { return "v1" }

func (extractorV1) Extract(raw json.RawMessage) (metrics.Bag, error) {
	var payload struct {
		Metrics []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrapf(errors.TypeSchema, err, "malformed v1 consumption record")
	}

	values := make(map[string]float64, len(payload.Metrics))
	for _, m := range payload.Metrics {
		values[m.Name] = m.Value
	}

	bag := metrics.NewBag()
	bag.Set(metrics.ComputeSeconds, values["compute_time_seconds"])
	bag.Set(metrics.ActiveSeconds, values["active_time_seconds"])
	bag.Set(metrics.WrittenBytes, values["written_data_bytes"])
	// v1 reports storage per branch type, never as one total
	bag.Set(metrics.StorageBytes, values["root_branch_storage_bytes"])
	bag.Add(metrics.StorageBytes, values["child_branches_storage_bytes"])
	bag.Set(metrics.TransferBytes, values["data_transfer_bytes"])
	bag.Set(metrics.BranchCount, values["branch_count"])
	bag.Set(metrics.RestoreBytes, values["instant_restore_bytes"])
	return bag, nil
}

func init() {
	if err := metrics.RegisterExtractor(extractorV1{}); err != nil {
		panic(err)
	}
	if err := metrics.RegisterExtractor(extractorV2{}); err != nil {
		panic(err)
	}
}
