package domain

import (
	"fmt"
	"math"
)

// ReferenceItem is one row of a lookup table. Weight is only meaningful
// for weighted tables (see ReferenceTable.Weighted).
type ReferenceItem struct {
	Table       ReferenceTable
	Code        string
	Description string
	Active      bool
	Weight      *float64
}

// Validate checks the item against its table kind.
func (i *ReferenceItem) Validate() error {
	if !i.Table.Valid() {
		return fmt.Errorf("unknown reference table %q", i.Table)
	}
	if i.Code == "" {
		return fmt.Errorf("%s: code is required", i.Table)
	}
	if !i.Table.Weighted() {
		if i.Weight != nil {
			return fmt.Errorf("%s %q: table does not carry weights", i.Table, i.Code)
		}
		return nil
	}
	if i.Weight == nil {
		return fmt.Errorf("%s %q: weight is required", i.Table, i.Code)
	}
	if w := *i.Weight; math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%s %q: weight %v must be within [0, 1]", i.Table, i.Code, w)
	}
	return nil
}

// ResolveWeight returns the item's weight, or an UnresolvedWeightError when
// the item is inactive, unweighted, or out of range.
func (i *ReferenceItem) ResolveWeight() (float64, error) {
	if !i.Active || !i.Table.Weighted() || i.Weight == nil {
		return 0, &UnresolvedWeightError{Table: i.Table, Code: i.Code}
	}
	w := *i.Weight
	if math.IsNaN(w) || w < 0 || w > 1 {
		return 0, &UnresolvedWeightError{Table: i.Table, Code: i.Code}
	}
	return w, nil
}

// WeightTable is an immutable snapshot of resolved weights keyed by table
// then code, taken once per evaluation.
type WeightTable map[ReferenceTable]map[string]float64

// NewWeightTable resolves every active weighted item. Items that do not
// resolve are left out, so lookups for them fail.
func NewWeightTable(items []*ReferenceItem) WeightTable {
	wt := WeightTable{}
	for _, it := range items {
		w, err := it.ResolveWeight()
		if err != nil {
			continue
		}
		if wt[it.Table] == nil {
			wt[it.Table] = map[string]float64{}
		}
		wt[it.Table][it.Code] = w
	}
	return wt
}

// Lookup resolves code in table.
func (wt WeightTable) Lookup(table ReferenceTable, code string) (float64, error) {
	if code == "" {
		return 0, &UnresolvedWeightError{Table: table}
	}
	w, ok := wt[table][code]
	if !ok {
		return 0, &UnresolvedWeightError{Table: table, Code: code}
	}
	return w, nil
}
