package estimate

import (
	"sort"

	"github.com/alexanderramin/costwise/internal/domain"
)

// Bucket is the PERT total of all leaf assignments sharing one code.
type Bucket struct {
	Code            string  `json:"code"`
	PertEstimate    float64 `json:"pert_estimate"`
	AssignmentCount int     `json:"assignment_count"`
}

// Breakdown groups project cost by the assignment reference codes. Codes
// with no assignments do not appear.
type Breakdown struct {
	CostTypes []Bucket `json:"cost_types,omitempty"`
	Regions   []Bucket `json:"regions,omitempty"`
	Resources []Bucket `json:"resources,omitempty"`
	Suppliers []Bucket `json:"suppliers,omitempty"`
}

type bucketSet map[string]*Bucket

func (b bucketSet) add(code string, pert float64) {
	if code == "" {
		return
	}
	bk, ok := b[code]
	if !ok {
		bk = &Bucket{Code: code}
		b[code] = bk
	}
	bk.PertEstimate += pert
	bk.AssignmentCount++
}

func (b bucketSet) sorted() []Bucket {
	if len(b) == 0 {
		return nil
	}
	out := make([]Bucket, 0, len(b))
	for _, bk := range b {
		out = append(out, *bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// buildBreakdown runs after a successful aggregation, so every assignment
// is already known to be valid.
func buildBreakdown(in Inputs) Breakdown {
	costTypes, regions, resources, suppliers := bucketSet{}, bucketSet{}, bucketSet{}, bucketSet{}
	in.Tree.Walk(func(n *domain.WBSNode) {
		for _, a := range in.Assignments[n.ID] {
			r, err := AssignmentPERT(a)
			if err != nil {
				continue
			}
			costTypes.add(a.CostTypeCode, r.Estimate)
			regions.add(a.RegionCode, r.Estimate)
			resources.add(a.ResourceCode, r.Estimate)
			suppliers.add(a.SupplierCode, r.Estimate)
		}
	})
	return Breakdown{
		CostTypes: costTypes.sorted(),
		Regions:   regions.sorted(),
		Resources: resources.sorted(),
		Suppliers: suppliers.sorted(),
	}
}
