package service

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/repository"
	"github.com/alexanderramin/costwise/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sql.DB
	uow         db.UnitOfWork
	projects    repository.ProjectRepo
	nodes       repository.WBSNodeRepo
	assignments repository.AssignmentRepo
	risks       repository.RiskRepo
	refs        repository.ReferenceRepo
	approvals   repository.ApprovalRepo
	aggregator  *estimate.Aggregator
	logs        *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvOn(t, database, testutil.NewTestUoW(database))
}

// newFileTestEnv backs the env with a file database whose snapshot reads
// run on a separate query-only pool, as the CLI wires it.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	write, read := testutil.NewFileTestDB(t)
	return newTestEnvOn(t, write, db.NewSQLiteUnitOfWork(write, db.WithReadDB(read)))
}

func newTestEnvOn(t *testing.T, database *sql.DB, uow db.UnitOfWork) *testEnv {
	t.Helper()
	testutil.SeedWeights(t, database)
	return &testEnv{
		db:          database,
		uow:         uow,
		projects:    repository.NewSQLiteProjectRepo(database),
		nodes:       repository.NewSQLiteWBSNodeRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		risks:       repository.NewSQLiteRiskRepo(database),
		refs:        repository.NewSQLiteReferenceRepo(database),
		approvals:   repository.NewSQLiteApprovalRepo(database),
		aggregator:  estimate.NewAggregator(2),
		logs:        &bytes.Buffer{},
	}
}

func (e *testEnv) logger() *slog.Logger {
	return NewLogger(e.logs, "text", slog.LevelDebug)
}

func (e *testEnv) estimation(observers ...UseCaseObserver) EstimationService {
	return NewEstimationService(e.uow, e.aggregator, e.logger(), observers...)
}

func (e *testEnv) approvalSvc(pub *recordingPublisher) ApprovalService {
	if pub == nil {
		return NewApprovalService(e.approvals, e.uow, e.aggregator, nil, e.logger())
	}
	return NewApprovalService(e.approvals, e.uow, e.aggregator, pub, e.logger())
}

func (e *testEnv) assignmentSvc() AssignmentService {
	return NewAssignmentService(e.assignments, e.uow)
}

func (e *testEnv) riskSvc() RiskService {
	return NewRiskService(e.risks, e.uow, e.logger())
}

// bridge is a small project:
//
//	1     Bridge            risk 10000 LIKELY/MAJOR (exposure 2000)
//	1.1   Deck              100/130/160  (pert 130, sd 10)
//	1.2   Piers             0/100/120    (pert 86.67, sd 20)
//	1.3   Handover          milestone
type bridge struct {
	project  *domain.Project
	root     *domain.WBSNode
	deck     *domain.WBSNode
	piers    *domain.WBSNode
	handover *domain.WBSNode
	deckA    *domain.Assignment
	piersA   *domain.Assignment
	rootRisk *domain.Risk
}

func seedBridge(t *testing.T, e *testEnv, code string) *bridge {
	t.Helper()
	ctx := context.Background()
	b := &bridge{project: testutil.NewTestProject(code, testutil.WithCurrency("EUR"))}
	require.NoError(t, e.projects.Create(ctx, b.project))

	b.root = testutil.NewTestNode(b.project.ID, "Bridge", testutil.WithNodeCode("1"))
	require.NoError(t, e.nodes.Create(ctx, b.root))
	b.deck = testutil.NewTestNode(b.project.ID, "Deck", testutil.WithParentID(b.root.ID), testutil.WithNodeCode("1.1"), testutil.WithOrderIndex(1))
	require.NoError(t, e.nodes.Create(ctx, b.deck))
	b.piers = testutil.NewTestNode(b.project.ID, "Piers", testutil.WithParentID(b.root.ID), testutil.WithNodeCode("1.2"), testutil.WithOrderIndex(2))
	require.NoError(t, e.nodes.Create(ctx, b.piers))
	b.handover = testutil.NewTestNode(b.project.ID, "Handover", testutil.WithParentID(b.root.ID), testutil.WithNodeCode("1.3"), testutil.WithOrderIndex(3), testutil.WithMilestone())
	require.NoError(t, e.nodes.Create(ctx, b.handover))

	assignments := e.assignmentSvc()
	b.deckA = testutil.NewTestAssignment(b.deck.ID, 100, 130, 160, testutil.WithBreakdownCodes("labour", "eu", "crew", "acme"))
	require.NoError(t, assignments.Create(ctx, b.deckA))
	b.piersA = testutil.NewTestAssignment(b.piers.ID, 0, 100, 120, testutil.WithBreakdownCodes("material", "eu", "", "acme"))
	require.NoError(t, assignments.Create(ctx, b.piersA))

	b.rootRisk = testutil.NewTestRisk(b.root.ID, 10000, "LIKELY", "MAJOR", testutil.WithCategory("GEO"))
	require.NoError(t, e.riskSvc().Create(ctx, b.rootRisk))
	return b
}

// approve drives a node to approved.
func approve(t *testing.T, svc ApprovalService, projectID, nodeID int64) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.ProcessApproval(ctx, approvalReq(projectID, nodeID, domain.ActionSubmit, "", ""))
	require.NoError(t, err)
	_, err = svc.ProcessApproval(ctx, approvalReq(projectID, nodeID, domain.ActionApprove, "alice", ""))
	require.NoError(t, err)
}

func approvalReq(projectID, nodeID int64, action domain.ApprovalAction, actor, comment string) app.ApprovalRequest {
	req := app.NewApprovalRequest(projectID, nodeID, action)
	req.Actor = actor
	req.Comment = comment
	return req
}

type recordedEvent struct {
	topic string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{topic: topic, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
