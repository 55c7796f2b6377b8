package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/costwise/internal/cli"
	"github.com/alexanderramin/costwise/internal/config"
	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/events"
	"github.com/alexanderramin/costwise/internal/repository"
	"github.com/alexanderramin/costwise/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags are needed before the command tree exists; cobra reports
	// malformed flags itself, so scan errors are ignored here.
	opts, _ := cli.ScanGlobalFlags(os.Args[1:])

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := service.NewLogger(os.Stderr, cfg.Log.Format, level)
	var observers []service.UseCaseObserver
	if opts.Verbose {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteWBSNodeRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	riskRepo := repository.NewSQLiteRiskRepo(database)
	referenceRepo := repository.NewSQLiteReferenceRepo(database)
	approvalRepo := repository.NewSQLiteApprovalRepo(database)

	var uowOpts []db.UnitOfWorkOption
	if cfg.DB.Path != db.MemoryPath {
		readDB, err := db.OpenReadDB(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer readDB.Close()
		uowOpts = append(uowOpts, db.WithReadDB(readDB))
	}
	uow := db.NewSQLiteUnitOfWork(database, uowOpts...)
	aggregator := estimate.NewAggregator(cfg.Estimation.Parallelism)

	var publisher events.Publisher = &events.NoopPublisher{}
	if cfg.Events.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.Events.NATSURL)
		if err != nil {
			logger.Warn("approval events disabled", "error", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close() //nolint:errcheck

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, nodeRepo),
		Estimation:  service.NewEstimationService(uow, aggregator, logger, observers...),
		Approvals:   service.NewApprovalService(approvalRepo, uow, aggregator, publisher, logger, observers...),
		Assignments: service.NewAssignmentService(assignmentRepo, uow, observers...),
		Risks:       service.NewRiskService(riskRepo, uow, logger, observers...),
		References:  service.NewReferenceService(referenceRepo, uow),
		Import:      service.NewImportService(uow, observers...),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if url := cfg.Events.NATSURL; url != "" {
		app.Watcher = func() (cli.ApprovalWatcher, error) {
			return events.NewNATSSubscriber(url)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.ReferenceTables) > 0 {
		items := make([]*domain.ReferenceItem, 0, len(cfg.ReferenceTables))
		for _, seed := range cfg.ReferenceTables {
			items = append(items, seed.Item())
		}
		if err := app.References.Seed(ctx, items); err != nil {
			return fmt.Errorf("seeding reference tables: %w", err)
		}
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
