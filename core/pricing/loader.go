package pricing

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"github.com/CruGlobal/datadog-custom-costs/core/types"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
)

// LoadFile reads an HCL era file and builds a table from it. The file
// replaces the built-in table wholesale; eras are not merged.
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "reading pricing file %s", path)
	}
	return Parse(src, path)
}

// Parse decodes era blocks from HCL source
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(errors.TypeConfig, diags, "parsing pricing file %s", filename)
	}

	content, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "era", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return nil, errors.Wrapf(errors.TypeConfig, diags, "reading pricing file %s", filename)
	}

	var eras []Era
	for _, block := range content.Blocks {
		era, err := decodeEra(block)
		if err != nil {
			return nil, err
		}
		eras = append(eras, era)
	}

	return NewTable(eras...)
}

func decodeEra(block *hcl.Block) (Era, error) {
	era := Era{Name: block.Labels[0]}

	content, _, diags := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "effective_from", Required: true},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "rates"},
		},
	})
	if diags.HasErrors() {
		return Era{}, errors.Wrapf(errors.TypeConfig, diags, "era %q", era.Name)
	}

	from, err := stringAttr(content.Attributes["effective_from"])
	if err != nil {
		return Era{}, errors.Wrapf(errors.TypeConfig, err, "era %q effective_from", era.Name)
	}
	era.EffectiveFrom, err = types.ParseDate(from)
	if err != nil {
		return Era{}, errors.Wrapf(errors.TypeConfig, err, "era %q effective_from", era.Name)
	}

	if len(content.Blocks) != 1 {
		return Era{}, errors.Configf("era %q needs exactly one rates block, found %d",
			era.Name, len(content.Blocks))
	}
	era.Rates, err = decodeRates(content.Blocks[0], era.Name)
	if err != nil {
		return Era{}, err
	}

	return era, nil
}

func decodeRates(block *hcl.Block, eraName string) (Rates, error) {
	content, _, diags := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "compute_per_cu_hour", Required: true},
			{Name: "storage_per_gb_month", Required: true},
			{Name: "data_transfer_per_gb", Required: true},
			{Name: "data_transfer_free_gb"},
			{Name: "branch_per_month"},
			{Name: "instant_restore_per_gb_month"},
		},
	})
	if diags.HasErrors() {
		return Rates{}, errors.Wrapf(errors.TypeConfig, diags, "era %q rates", eraName)
	}

	var rates Rates
	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"compute_per_cu_hour", &rates.ComputePerCUHour},
		{"storage_per_gb_month", &rates.StoragePerGBMonth},
		{"data_transfer_per_gb", &rates.TransferPerGB},
		{"data_transfer_free_gb", &rates.TransferFreeGB},
		{"branch_per_month", &rates.BranchPerMonth},
		{"instant_restore_per_gb_month", &rates.RestorePerGBMonth},
	}
	for _, f := range fields {
		attr, ok := content.Attributes[f.name]
		if !ok {
			continue
		}
		d, err := decimalAttr(attr)
		if err != nil {
			return Rates{}, errors.Wrapf(errors.TypeConfig, err, "era %q rate %s", eraName, f.name)
		}
		*f.dst = d
	}

	return rates, nil
}

func stringAttr(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

// decimalAttr accepts quoted strings (exact) and bare numbers. Quoted is
// the documented form: "0.35" parses without passing through binary float.
func decimalAttr(attr *hcl.Attribute) (decimal.Decimal, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, diags
	}

	switch {
	case val.Type() == cty.String:
		return decimal.NewFromString(val.AsString())
	case val.Type() == cty.Number:
		return decimal.NewFromString(val.AsBigFloat().Text('f', -1))
	default:
		return decimal.Zero, fmt.Errorf("expected a number or quoted string, got %s",
			val.Type().FriendlyName())
	}
}
