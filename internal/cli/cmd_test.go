package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	usecase "github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/events"
	"github.com/alexanderramin/costwise/internal/repository"
	"github.com/alexanderramin/costwise/internal/service"
	"github.com/alexanderramin/costwise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bridgeJSON = `{
  "project": {"code": "BRG01", "name": "River Bridge", "currency": "EUR"},
  "nodes": [
    {"ref": "root", "title": "Bridge"},
    {"ref": "deck", "parent_ref": "root", "title": "Deck", "order": 1},
    {"ref": "piers", "parent_ref": "root", "title": "Piers", "order": 2},
    {"ref": "handover", "parent_ref": "root", "title": "Handover", "order": 3, "milestone": true}
  ],
  "assignments": [
    {"node_ref": "deck", "best": 100, "likely": 130, "worst": 160, "cost_type": "labour"},
    {"node_ref": "piers", "best": 0, "likely": 100, "worst": 120, "cost_type": "material"}
  ],
  "risks": [
    {"node_ref": "root", "risk_cost": 10000, "probability": "likely", "severity": "major"}
  ]
}`

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	testutil.SeedWeights(t, database)
	uow := testutil.NewTestUoW(database)
	aggregator := estimate.NewAggregator(2)
	logger := service.NewLogger(nil, "text", 0)

	projRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteWBSNodeRepo(database)

	return &App{
		Projects:    service.NewProjectService(projRepo, nodeRepo),
		Estimation:  service.NewEstimationService(uow, aggregator, logger),
		Approvals:   service.NewApprovalService(repository.NewSQLiteApprovalRepo(database), uow, aggregator, nil, logger),
		Assignments: service.NewAssignmentService(repository.NewSQLiteAssignmentRepo(database), uow),
		Risks:       service.NewRiskService(repository.NewSQLiteRiskRepo(database), uow, logger),
		References:  service.NewReferenceService(repository.NewSQLiteReferenceRepo(database), uow),
		Import:      service.NewImportService(uow),
	}
}

// importBridge writes the bridge fixture to disk and imports it.
func importBridge(t *testing.T, app *App) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.json")
	require.NoError(t, os.WriteFile(path, []byte(bridgeJSON), 0o644))
	_, err := executeCmd(t, app, "project", "import", path)
	require.NoError(t, err)
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

// --- project ---

func TestProjectImportAndList(t *testing.T) {
	app := testApp(t)

	path := filepath.Join(t.TempDir(), "bridge.json")
	require.NoError(t, os.WriteFile(path, []byte(bridgeJSON), 0o644))
	out, err := executeCmd(t, app, "project", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported project River Bridge [BRG01]: 4 nodes, 2 assignments, 1 risks")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BRG01")
	assert.Contains(t, out, "River Bridge")
}

func TestProjectList_Empty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
}

func TestProjectImport_ReportsValidationErrors(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project": {"code": "bad", "name": ""}, "nodes": []}`), 0o644))

	_, err := executeCmd(t, app, "project", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project.code")
	assert.Contains(t, err.Error(), "project.name is required")
}

func TestProjectShow_ResolvesByCodeAndID(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "project", "show", "brg01")
	require.NoError(t, err)
	assert.Contains(t, out, "1.1 Deck")
	assert.Contains(t, out, "◆ 1.3 Handover")

	p, err := app.Projects.GetByCode(context.Background(), "BRG01")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "project", "show", itoa(p.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "River Bridge")

	_, err = executeCmd(t, app, "project", "show", "NOPE01")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRemove(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "project", "remove", "BRG01")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed project River Bridge [BRG01]")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
}

// --- estimate ---

func TestEstimateProject_JSON(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "estimate", "project", "BRG01", "--json")
	require.NoError(t, err)

	sum := decodeJSON[usecase.ProjectEstimationSummary](t, out)
	assert.Equal(t, "BRG01", sum.ProjectCode)
	assert.Equal(t, 2, sum.AssignmentCount)
	assert.InDelta(t, 130+520.0/6, sum.PertEstimate, 1e-6)
	assert.InDelta(t, 2000, sum.RiskExposure, 1e-6)
	assert.InDelta(t, 2130+520.0/6, sum.RiskAdjustedEstimate, 1e-6)
	assert.Len(t, sum.Nodes, 4)
	require.Len(t, sum.Breakdown.CostTypes, 2)
	assert.Equal(t, "LABOUR", sum.Breakdown.CostTypes[0].Code)
}

func TestEstimateProject_Text(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "estimate", "project", "BRG01")
	require.NoError(t, err)
	assert.Contains(t, out, "River Bridge")
	assert.Contains(t, out, "2,216.67 EUR")
	assert.Contains(t, out, "BY COST TYPE")
}

func TestEstimateNode(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "estimate", "node", "BRG01", "1.1")
	require.NoError(t, err)
	assert.Contains(t, out, "1.1 Deck")
	assert.Contains(t, out, "130.00 EUR")
	assert.Contains(t, out, "○ draft")

	out, err = executeCmd(t, app, "estimate", "node", "BRG01", "1.1", "--json")
	require.NoError(t, err)
	node := decodeJSON[usecase.WBSCostSummary](t, out)
	assert.InDelta(t, 10, node.StdDeviation, 1e-6)
	assert.InDelta(t, 130-1.28*10, node.ConfidenceLow, 1e-6)
}

func TestEstimateNode_ByID(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	deckID := nodeID(t, app, "1.1")

	out, err := executeCmd(t, app, "estimate", "node", "BRG01", "#"+itoa(deckID), "--json")
	require.NoError(t, err)
	assert.Equal(t, deckID, decodeJSON[usecase.WBSCostSummary](t, out).NodeID)
}

func TestEstimateNode_UnknownCode(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	_, err := executeCmd(t, app, "estimate", "node", "BRG01", "9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `wbs node "9.9" not found`)
}

func TestEstimateNode_CustomCodeAnyCase(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "civil.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "project": {"code": "CIV01", "name": "Civil", "currency": "EUR"},
  "nodes": [
    {"ref": "root", "title": "Civil"},
    {"ref": "civ", "parent_ref": "root", "title": "Earthworks", "code": "civ-a"}
  ],
  "assignments": [{"node_ref": "civ", "best": 10, "likely": 20, "worst": 30}]
}`), 0o644))
	_, err := executeCmd(t, app, "project", "import", path)
	require.NoError(t, err)

	for _, code := range []string{"civ-a", "CIV-A"} {
		out, err := executeCmd(t, app, "estimate", "node", "CIV01", code, "--json")
		require.NoError(t, err, code)
		node := decodeJSON[usecase.WBSCostSummary](t, out)
		assert.Equal(t, "CIV-A", node.Code)
		assert.InDelta(t, 20, node.PertEstimate, 1e-9)
	}
}

func TestProjectImport_RejectsCodeCollidingWithOutline(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "clash.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "project": {"code": "CLS01", "name": "Clash", "currency": "EUR"},
  "nodes": [
    {"ref": "root", "title": "Root"},
    {"ref": "a", "parent_ref": "root", "title": "A", "code": "1.3"},
    {"ref": "b", "parent_ref": "root", "title": "B"},
    {"ref": "c", "parent_ref": "root", "title": "C"}
  ]
}`), 0o644))

	_, err := executeCmd(t, app, "project", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `nodes[3].code: "1.3" is already used by nodes[1]`)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "CLS01")
}

// --- approval ---

func TestApprovalFlow_SubmitApproveHistory(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.1", "--json")
	require.NoError(t, err)
	resp := decodeJSON[usecase.ApprovalResponse](t, out)
	assert.Equal(t, domain.ApprovalSubmitted, resp.Status)
	require.NotNil(t, resp.SubmittedEstimate)
	assert.InDelta(t, 130, *resp.SubmittedEstimate, 1e-6)

	out, err = executeCmd(t, app, "approval", "approve", "BRG01", "1.1", "--actor", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ approved")
	assert.Contains(t, out, "by alice")

	out, err = executeCmd(t, app, "approval", "history", "BRG01", "1.1", "--json")
	require.NoError(t, err)
	history := decodeJSON[[]domain.ApprovalEvent](t, out)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ActionSubmit, history[0].Action)
	assert.Equal(t, domain.ActionApprove, history[1].Action)
	assert.Equal(t, "alice", history[1].Actor)
}

func TestApprovalApprove_RequiresActor(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	_, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.1")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "approval", "approve", "BRG01", "1.1")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestApprovalApprove_FromDraftIsInvalid(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	_, err := executeCmd(t, app, "approval", "approve", "BRG01", "1.1", "--actor", "alice")
	require.Error(t, err)
	var terr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestApprovalReject_NonInteractiveNeedsComment(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	_, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.2")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "approval", "reject", "BRG01", "1.2", "--actor", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comment")
}

func TestApprovalReject_PromptsForCommentWhenInteractive(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	var prompted string
	app.IsInteractive = func() bool { return true }
	app.PromptComment = func(title string) (string, error) {
		prompted = title
		return "piers underestimated", nil
	}
	_, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.2")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "approval", "reject", "BRG01", "1.2", "--actor", "bob", "--json")
	require.NoError(t, err)
	resp := decodeJSON[usecase.ApprovalResponse](t, out)
	assert.Equal(t, domain.ApprovalRejected, resp.Status)
	assert.Equal(t, "piers underestimated", resp.Comment)
	assert.Equal(t, "Reject 1.2 Piers", prompted)
}

func TestApprovalReject_CommentFlagSkipsPrompt(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	app.IsInteractive = func() bool { return true }
	app.PromptComment = func(string) (string, error) {
		t.Fatal("prompt must not run when --comment is given")
		return "", nil
	}
	_, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.2")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "approval", "reject", "BRG01", "1.2", "--actor", "bob", "--comment", "too low")
	require.NoError(t, err)
}

func TestApproval_StaleAfterAssignmentChange(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)
	_, err := executeCmd(t, app, "approval", "submit", "BRG01", "1.1")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "approval", "approve", "BRG01", "1.1", "--actor", "alice")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "assignment", "add", "BRG01", "1.1", "--best", "10", "--likely", "20", "--worst", "30")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "estimate", "node", "BRG01", "1.1", "--json")
	require.NoError(t, err)
	node := decodeJSON[usecase.WBSCostSummary](t, out)
	assert.True(t, node.StaleApproved)
	assert.Equal(t, int64(1), node.Revision)
	assert.Equal(t, domain.ApprovalApproved, node.ApprovalStatus)
}

type fakeWatcher struct {
	topic  string
	closed bool
	events []events.ApprovalTransitioned
}

func (w *fakeWatcher) WatchApprovals(ctx context.Context, topic string, fn func(events.ApprovalTransitioned)) error {
	w.topic = topic
	for _, e := range w.events {
		fn(e)
	}
	return nil
}

func (w *fakeWatcher) Close() error {
	w.closed = true
	return nil
}

func TestApprovalWatch_PrintsEvents(t *testing.T) {
	app := testApp(t)
	w := &fakeWatcher{events: []events.ApprovalTransitioned{{
		ProjectID: 1, WBSNodeID: 2, Action: domain.ActionSubmit,
		FromStatus: domain.ApprovalDraft, ToStatus: domain.ApprovalSubmitted,
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}}
	app.Watcher = func() (ApprovalWatcher, error) { return w, nil }

	out, err := executeCmd(t, app, "approval", "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "project #1 node #2")
	assert.Equal(t, events.TopicApprovalAll, w.topic)
	assert.True(t, w.closed)

	_, err = executeCmd(t, app, "approval", "watch", "--topic", events.TopicApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, events.TopicApprovalApproved, w.topic)
}

func TestApprovalWatch_DisabledWithoutBus(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "approval", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approval events are disabled")
}

// --- assignment ---

func TestAssignmentAddUpdateRemove(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "assignment", "add", "BRG01", "1.2",
		"--best", "60", "--likely", "60", "--worst", "60", "--duty-pct", "10", "--region", "eu", "--json")
	require.NoError(t, err)
	a := decodeJSON[domain.Assignment](t, out)
	assert.NotZero(t, a.ID)
	assert.InDelta(t, 66, a.PertEstimate, 1e-6)
	assert.Equal(t, "EU", a.RegionCode)

	id := itoa(a.ID)
	out, err = executeCmd(t, app, "assignment", "update", id, "--likely", "90", "--worst", "120", "--json")
	require.NoError(t, err)
	updated := decodeJSON[domain.Assignment](t, out)
	assert.InDelta(t, 1.1*(60+360+120)/6.0, updated.PertEstimate, 1e-6)
	assert.Equal(t, "EU", updated.RegionCode, "unchanged flags keep their values")

	out, err = executeCmd(t, app, "assignment", "list", "BRG01", "1.2")
	require.NoError(t, err)
	assert.Contains(t, out, "60.00 / 90.00 / 120.00")

	out, err = executeCmd(t, app, "assignment", "remove", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed assignment "+id)

	_, err = executeCmd(t, app, "assignment", "remove", id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssignmentUpdate_MovesToAnotherLeaf(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "assignment", "add", "BRG01", "1.2", "--best", "1", "--likely", "2", "--worst", "3", "--json")
	require.NoError(t, err)
	a := decodeJSON[domain.Assignment](t, out)

	out, err = executeCmd(t, app, "assignment", "update", itoa(a.ID), "--node", "1.1", "--json")
	require.NoError(t, err)
	assert.Equal(t, nodeID(t, app, "1.1"), decodeJSON[domain.Assignment](t, out).WBSNodeID)
}

func TestAssignmentAdd_RejectsSummaryAndMilestone(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	for _, code := range []string{"1", "1.3"} {
		_, err := executeCmd(t, app, "assignment", "add", "BRG01", code, "--best", "1", "--likely", "2", "--worst", "3")
		require.Error(t, err, code)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, code)
	}
}

func TestAssignmentAdd_RejectsBadOrdering(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	_, err := executeCmd(t, app, "assignment", "add", "BRG01", "1.1", "--best", "50", "--likely", "40", "--worst", "60")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAssignmentAdd_RequiresThreePoints(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	_, err := executeCmd(t, app, "assignment", "add", "BRG01", "1.1", "--best", "50")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "likely")
}

func TestAssignmentRemove_InvalidID(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "assignment", "remove", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid assignment id "abc"`)
}

// --- risk ---

func TestRiskAdd_ResolvedAndUnresolved(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "risk", "add", "BRG01", "1.1", "--cost", "1000",
		"--probability", "rare", "--severity", "minor", "--category", "weather")
	require.NoError(t, err)
	assert.Contains(t, out, "exposure 20.00")

	out, err = executeCmd(t, app, "risk", "add", "BRG01", "1.1", "--cost", "1000", "--probability", "never", "--severity", "minor")
	require.NoError(t, err)
	assert.Contains(t, out, "exposure unresolved")

	out, err = executeCmd(t, app, "risk", "list", "BRG01", "1.1")
	require.NoError(t, err)
	assert.Contains(t, out, "WEATHER")
	assert.Contains(t, out, "unresolved")

	out, err = executeCmd(t, app, "estimate", "project", "BRG01", "--json")
	require.NoError(t, err)
	sum := decodeJSON[usecase.ProjectEstimationSummary](t, out)
	assert.InDelta(t, 2020, sum.RiskExposure, 1e-6)
	assert.Equal(t, 1, sum.ExcludedRiskCount)
}

func TestRiskUpdateAndRemove(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	out, err := executeCmd(t, app, "risk", "add", "BRG01", "1.2", "--cost", "500", "--json")
	require.NoError(t, err)
	r := decodeJSON[domain.Risk](t, out)
	assert.Nil(t, r.RiskExposure)

	out, err = executeCmd(t, app, "risk", "update", itoa(r.ID), "--probability", "likely", "--severity", "major")
	require.NoError(t, err)
	assert.Contains(t, out, "exposure 100.00")

	_, err = executeCmd(t, app, "risk", "remove", itoa(r.ID))
	require.NoError(t, err)
}

func TestRiskAdd_RejectsNegativeCost(t *testing.T) {
	app := testApp(t)
	importBridge(t, app)

	_, err := executeCmd(t, app, "risk", "add", "BRG01", "1.1", "--cost", "-5")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// --- reference ---

func TestReferenceSetAndList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "reference", "set", "probability", "high", "--weight", "0.8", "--description", "High")
	require.NoError(t, err)
	assert.Contains(t, out, "Set probability HIGH (weight 0.800)")

	out, err = executeCmd(t, app, "reference", "list", "probability")
	require.NoError(t, err)
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "LIKELY")

	out, err = executeCmd(t, app, "ref", "list", "probability", "--json")
	require.NoError(t, err)
	items := decodeJSON[[]domain.ReferenceItem](t, out)
	assert.NotEmpty(t, items)
}

func TestReferenceSet_RejectsWeightOnUnweightedTable(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "reference", "set", "region", "EU", "--weight", "0.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not carry weights")
}

func TestReferenceSet_RejectsMissingWeight(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "reference", "set", "severity", "CRITICAL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight is required")
}

func TestReferenceList_UnknownTable(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "reference", "list", "colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown reference table "colour"`)
}

// --- flags ---

func TestScanGlobalFlags(t *testing.T) {
	opts, err := ScanGlobalFlags([]string{"estimate", "project", "BRG01", "--config", "cw.yaml", "-v", "--json", "--best", "10"})
	require.NoError(t, err)
	assert.Equal(t, "cw.yaml", opts.ConfigPath)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSON)
}

func TestScanGlobalFlags_Defaults(t *testing.T) {
	opts, err := ScanGlobalFlags([]string{"project", "list"})
	require.NoError(t, err)
	assert.Equal(t, GlobalOptions{}, opts)
}

func nodeID(t *testing.T, app *App, code string) int64 {
	t.Helper()
	ctx := context.Background()
	p, err := app.Projects.GetByCode(ctx, "BRG01")
	require.NoError(t, err)
	n, err := resolveNode(ctx, app, p.ID, code)
	require.NoError(t, err)
	return n.ID
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
