package estimate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parent(id int64) *int64 { return &id }

// buildTree links nodes and fails the test on malformed fixtures.
func buildTree(t *testing.T, nodes ...*domain.WBSNode) *domain.WBSTree {
	t.Helper()
	tree, err := domain.NewWBSTree(1, nodes)
	require.NoError(t, err)
	return tree
}

// assignmentWithStdDev returns an assignment whose PERT estimate is pert
// and whose standard deviation is sd (best = pert - 3sd, worst = pert + 3sd).
func assignmentWithStdDev(id, nodeID int64, pert, sd float64) *domain.Assignment {
	return &domain.Assignment{ID: id, WBSNodeID: nodeID, Best: pert - 3*sd, Likely: pert, Worst: pert + 3*sd}
}

func TestAggregate_LeafVariancesCombineInQuadrature(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1)},
		&domain.WBSNode{ID: 3, Code: "1.2", ParentID: parent(1)},
	)
	in := Inputs{
		Tree: tree,
		Assignments: map[int64][]*domain.Assignment{
			2: {assignmentWithStdDev(10, 2, 100, 10)},
			3: {assignmentWithStdDev(11, 3, 200, 20)},
		},
	}

	res, err := NewAggregator(2).Aggregate(in)
	require.NoError(t, err)

	root := res.Nodes[1]
	assert.InDelta(t, 300.0, root.PertEstimate, 1e-9)
	assert.InDelta(t, 22.36, root.StdDeviation, 0.01)
	assert.NotEqual(t, 30.0, math.Round(root.StdDeviation))
	assert.Equal(t, 2, root.AssignmentCount)
	assert.InDelta(t, 10.0, res.Nodes[2].StdDeviation, 1e-9)
	assert.Equal(t, root.PertEstimate, res.Project.PertEstimate)
}

func TestAggregate_RiskExposureRollsUpAndAdjustsEstimate(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1)},
	)
	in := Inputs{
		Tree: tree,
		Assignments: map[int64][]*domain.Assignment{
			2: {{ID: 1, WBSNodeID: 2, Best: 5000, Likely: 5000, Worst: 5000}},
		},
		Risks: map[int64][]*domain.Risk{
			2: {{ID: 1, WBSNodeID: 2, RiskCost: 10000, ProbabilityCode: "LIKELY", SeverityCode: "MAJOR"}},
			1: {{ID: 2, WBSNodeID: 1, RiskCost: 1000, ProbabilityCode: "RARE", SeverityCode: "MINOR"}},
		},
		Weights: testWeights(),
	}

	res, err := NewAggregator(1).Aggregate(in)
	require.NoError(t, err)

	leaf := res.Nodes[2]
	assert.InDelta(t, 5000.0, leaf.PertEstimate, 1e-9)
	assert.InDelta(t, 2000.0, leaf.RiskExposure, 1e-9)
	assert.InDelta(t, 7000.0, leaf.RiskAdjustedEstimate, 1e-9)
	assert.Equal(t, 1, leaf.RiskCount)

	root := res.Nodes[1]
	assert.InDelta(t, 2020.0, root.RiskExposure, 1e-9)
	assert.Equal(t, 2, root.RiskCount)
	assert.InDelta(t, 7020.0, root.RiskAdjustedEstimate, 1e-9)
}

func TestAggregate_UnresolvedRiskIsExcludedAndFlagged(t *testing.T) {
	tree := buildTree(t, &domain.WBSNode{ID: 1, Code: "1"})
	in := Inputs{
		Tree: tree,
		Risks: map[int64][]*domain.Risk{
			1: {
				{ID: 8, WBSNodeID: 1, RiskCost: 500, ProbabilityCode: "GONE", SeverityCode: "MAJOR"},
				{ID: 3, WBSNodeID: 1, RiskCost: 500},
				{ID: 5, WBSNodeID: 1, RiskCost: 1000, ProbabilityCode: "LIKELY", SeverityCode: "MAJOR"},
			},
		},
		Weights: testWeights(),
	}

	res, err := NewAggregator(1).Aggregate(in)
	require.NoError(t, err)

	s := res.Nodes[1]
	assert.Equal(t, 1, s.RiskCount)
	assert.Equal(t, 2, s.ExcludedRiskCount)
	assert.InDelta(t, 200.0, s.RiskExposure, 1e-9)
	require.Len(t, res.Excluded, 2)
	assert.Equal(t, int64(3), res.Excluded[0].RiskID)
	assert.Equal(t, int64(8), res.Excluded[1].RiskID)
	assert.Equal(t, "GONE", res.Excluded[1].Reason.Code)
	assert.Equal(t, 2, res.Project.ExcludedRiskCount)
}

func TestAggregate_EmptyNodeIsAllZeros(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1), IsMilestone: true},
	)
	res, err := NewAggregator(1).Aggregate(Inputs{Tree: tree})
	require.NoError(t, err)

	assert.Equal(t, Summary{NodeID: 2}, res.Nodes[2])
	assert.Equal(t, 0.0, res.Nodes[1].ConfidenceLow)
	assert.Equal(t, 0.0, res.Nodes[1].ConfidenceHigh)
}

func TestAggregate_MalformedAssignmentAbortsProject(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1)},
		&domain.WBSNode{ID: 3, Code: "1.2", ParentID: parent(1)},
	)
	in := Inputs{
		Tree: tree,
		Assignments: map[int64][]*domain.Assignment{
			2: {assignmentWithStdDev(1, 2, 100, 10)},
			3: {{ID: 77, WBSNodeID: 3, Best: 100, Likely: 50, Worst: 150}},
		},
	}

	res, err := NewAggregator(4).Aggregate(in)
	assert.Nil(t, res)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, int64(77), ve.AssignmentID)
}

func TestAggregate_ParallelFailuresReportEarliestSubtree(t *testing.T) {
	nodes := []*domain.WBSNode{{ID: 1, Code: "1"}}
	assignments := map[int64][]*domain.Assignment{}
	for i := int64(2); i <= 9; i++ {
		nodes = append(nodes, &domain.WBSNode{ID: i, ParentID: parent(1)})
		assignments[i] = []*domain.Assignment{{ID: 100 + i, WBSNodeID: i, Best: 10, Likely: 5, Worst: 20}}
	}
	in := Inputs{Tree: buildTree(t, nodes...), Assignments: assignments}

	for range 25 {
		_, err := NewAggregator(4).Aggregate(in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, int64(102), ve.AssignmentID)
	}
}

func TestAggregate_AssignmentOnSummaryNodeIsRejected(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1)},
	)
	in := Inputs{
		Tree:        tree,
		Assignments: map[int64][]*domain.Assignment{1: {assignmentWithStdDev(4, 1, 10, 1)}},
	}
	_, err := NewAggregator(1).Aggregate(in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, int64(4), ve.AssignmentID)
	assert.Contains(t, err.Error(), "summary node")
}

func TestAggregate_BreakdownBuckets(t *testing.T) {
	tree := buildTree(t,
		&domain.WBSNode{ID: 1, Code: "1"},
		&domain.WBSNode{ID: 2, Code: "1.1", ParentID: parent(1)},
		&domain.WBSNode{ID: 3, Code: "1.2", ParentID: parent(1)},
	)
	in := Inputs{
		Tree: tree,
		Assignments: map[int64][]*domain.Assignment{
			2: {
				{ID: 1, Best: 100, Likely: 100, Worst: 100, CostTypeCode: "LAB", RegionCode: "EU", SupplierCode: "ACME"},
				{ID: 2, Best: 50, Likely: 50, Worst: 50, CostTypeCode: "MAT", RegionCode: "EU"},
			},
			3: {
				{ID: 3, Best: 25, Likely: 25, Worst: 25, CostTypeCode: "LAB", RegionCode: "US", ResourceCode: "ENG"},
			},
		},
	}

	res, err := NewAggregator(1).Aggregate(in)
	require.NoError(t, err)

	assert.Equal(t, []Bucket{
		{Code: "LAB", PertEstimate: 125, AssignmentCount: 2},
		{Code: "MAT", PertEstimate: 50, AssignmentCount: 1},
	}, res.Breakdown.CostTypes)
	assert.Equal(t, []Bucket{
		{Code: "EU", PertEstimate: 150, AssignmentCount: 2},
		{Code: "US", PertEstimate: 25, AssignmentCount: 1},
	}, res.Breakdown.Regions)
	assert.Equal(t, []Bucket{{Code: "ENG", PertEstimate: 25, AssignmentCount: 1}}, res.Breakdown.Resources)
	assert.Equal(t, []Bucket{{Code: "ACME", PertEstimate: 100, AssignmentCount: 1}}, res.Breakdown.Suppliers)
}

func TestAggregate_Idempotent(t *testing.T) {
	in := randomProject(rand.New(rand.NewSource(7)), 40)
	agg := NewAggregator(4)

	first, err := agg.Aggregate(in)
	require.NoError(t, err)
	second, err := agg.Aggregate(in)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second aggregation differs (-first +second):\n%s", diff)
	}
}

func TestAggregate_ParallelismDoesNotChangeResult(t *testing.T) {
	in := randomProject(rand.New(rand.NewSource(11)), 60)

	serial, err := NewAggregator(1).Aggregate(in)
	require.NoError(t, err)
	parallel, err := NewAggregator(8).Aggregate(in)
	require.NoError(t, err)

	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Fatalf("parallel aggregation differs (-serial +parallel):\n%s", diff)
	}
}

// TestAggregate_Invariants_OrderIndependent property-tests that permuting
// a node's children does not change any summary.
func TestAggregate_Invariants_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		in := randomProject(rng, rng.Intn(30)+2)
		before, err := NewAggregator(2).Aggregate(in)
		require.NoError(t, err)

		for _, n := range in.Tree.Nodes {
			rng.Shuffle(len(n.ChildIDs), func(i, j int) {
				n.ChildIDs[i], n.ChildIDs[j] = n.ChildIDs[j], n.ChildIDs[i]
			})
		}
		after, err := NewAggregator(2).Aggregate(in)
		require.NoError(t, err)

		for id, want := range before.Nodes {
			got := after.Nodes[id]
			assert.InDelta(t, want.PertEstimate, got.PertEstimate, 1e-6, "trial %d node %d", trial, id)
			assert.InDelta(t, want.Variance, got.Variance, 1e-6, "trial %d node %d", trial, id)
			assert.InDelta(t, want.RiskExposure, got.RiskExposure, 1e-6, "trial %d node %d", trial, id)
			assert.Equal(t, want.AssignmentCount, got.AssignmentCount)
		}
	}
}

// TestAggregate_Invariants_Associative checks that aggregating {A, B, C}
// under one parent equals combining the {A, B} aggregate with C.
func TestAggregate_Invariants_Associative(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 100; trial++ {
		leaves := make([]*domain.Assignment, 3)
		for i := range leaves {
			best := rng.Float64() * 1000
			likely := best + rng.Float64()*500
			worst := likely + rng.Float64()*900
			leaves[i] = &domain.Assignment{ID: int64(i + 1), Best: best, Likely: likely, Worst: worst}
		}

		flat := buildTree(t,
			&domain.WBSNode{ID: 1},
			&domain.WBSNode{ID: 2, ParentID: parent(1)},
			&domain.WBSNode{ID: 3, ParentID: parent(1)},
			&domain.WBSNode{ID: 4, ParentID: parent(1)},
		)
		nested := buildTree(t,
			&domain.WBSNode{ID: 1},
			&domain.WBSNode{ID: 5, ParentID: parent(1)},
			&domain.WBSNode{ID: 2, ParentID: parent(5)},
			&domain.WBSNode{ID: 3, ParentID: parent(5)},
			&domain.WBSNode{ID: 4, ParentID: parent(1)},
		)
		assignments := map[int64][]*domain.Assignment{2: {leaves[0]}, 3: {leaves[1]}, 4: {leaves[2]}}

		direct, err := NewAggregator(1).Aggregate(Inputs{Tree: flat, Assignments: assignments})
		require.NoError(t, err)
		grouped, err := NewAggregator(1).Aggregate(Inputs{Tree: nested, Assignments: assignments})
		require.NoError(t, err)

		combined := Combine(1, grouped.Nodes[5], grouped.Nodes[4])
		assert.InDelta(t, direct.Nodes[1].PertEstimate, combined.PertEstimate, 1e-6, "trial %d", trial)
		assert.InDelta(t, direct.Nodes[1].Variance, combined.Variance, 1e-6, "trial %d", trial)
		assert.InDelta(t, direct.Nodes[1].StdDeviation, grouped.Nodes[1].StdDeviation, 1e-6, "trial %d", trial)
	}
}

// randomProject builds a random single-root tree with assignments on the
// leaves and risks sprinkled over every node.
func randomProject(rng *rand.Rand, size int) Inputs {
	nodes := []*domain.WBSNode{{ID: 1, Code: "1"}}
	for id := int64(2); id <= int64(size); id++ {
		p := nodes[rng.Intn(len(nodes))].ID
		nodes = append(nodes, &domain.WBSNode{ID: id, ParentID: parent(p)})
	}
	tree, err := domain.NewWBSTree(1, nodes)
	if err != nil {
		panic(err)
	}

	in := Inputs{
		Tree:        tree,
		Assignments: map[int64][]*domain.Assignment{},
		Risks:       map[int64][]*domain.Risk{},
		Weights:     testWeights(),
	}
	probs := []string{"LIKELY", "RARE", "UNKNOWN"}
	sevs := []string{"MAJOR", "MINOR"}
	var nextID int64
	for _, n := range tree.Nodes {
		if !n.IsSummary {
			for k := rng.Intn(4); k > 0; k-- {
				nextID++
				best := rng.Float64() * 1000
				likely := best + rng.Float64()*400
				worst := likely + rng.Float64()*800
				in.Assignments[n.ID] = append(in.Assignments[n.ID], &domain.Assignment{
					ID: nextID, WBSNodeID: n.ID, Best: best, Likely: likely, Worst: worst,
					CostTypeCode: []string{"LAB", "MAT", ""}[rng.Intn(3)],
				})
			}
		}
		if rng.Intn(3) == 0 {
			nextID++
			in.Risks[n.ID] = append(in.Risks[n.ID], &domain.Risk{
				ID: nextID, WBSNodeID: n.ID, RiskCost: rng.Float64() * 5000,
				ProbabilityCode: probs[rng.Intn(len(probs))], SeverityCode: sevs[rng.Intn(len(sevs))],
			})
		}
	}
	return in
}
