package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"alcyxob/fitness-sync/internal/config"
	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/metrics"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/repository/mongo"
	"alcyxob/fitness-sync/internal/repository/rest"
	"alcyxob/fitness-sync/internal/service"
	"alcyxob/fitness-sync/internal/storage"
)

// cliApp carries what the commands share: configuration, logger, metrics
// and, once connect has run, the services.
type cliApp struct {
	configDir string
	logLevel  string

	cfg     config.Config
	log     *logger.Logger
	metrics *metrics.Recorder

	plans     service.PlanService
	sessions  service.SessionService
	workouts  service.WorkoutService
	exercises service.ExerciseService
	recorder  *service.BatchRecorder
	closers   []func()
}

func newRootCmd() (*cobra.Command, *cliApp) {
	app := &cliApp{log: logger.Nop()}

	root := &cobra.Command{
		Use:   "fitsync",
		Short: "Keep training plans, sessions and exercises consistent with the fitness API",
		Long: `fitsync applies desired plans, sessions and workout logs to the fitness API.
Positions are allocated client side, reorders go through a two-phase update
and child lists are synchronized with a create/update/delete batch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load()
		},
	}
	root.PersistentFlags().StringVar(&app.configDir, "config", ".", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level, overrides log.level")

	root.AddCommand(
		newPlanCmd(app),
		newSessionCmd(app),
		newWorkoutCmd(app),
		newExerciseCmd(app),
		newJournalCmd(app),
		newServeFakeCmd(app),
	)
	return root, app
}

func (a *cliApp) load() error {
	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewLogger("fitsync", cfg.Log.Level)
	a.metrics = metrics.New()
	return nil
}

// connect wires the REST repositories, the optional journal and snapshot
// store, and the services on top of them.
func (a *cliApp) connect(ctx context.Context) error {
	if a.plans != nil {
		return nil
	}

	client := rest.NewClient(rest.Config{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Token:   a.cfg.API.Token,
	}, a.log, a.metrics)

	var journal repository.JournalRepository
	if a.cfg.Journal.Enabled {
		dbClient, err := mongo.ConnectDB(ctx, a.cfg.Journal.URI)
		if err != nil {
			return fmt.Errorf("connect journal: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := mongo.DisconnectDB(dbClient); err != nil {
				a.log.Warn().Err(err).Msg("journal disconnect failed")
			}
		})
		db := dbClient.Database(a.cfg.Journal.Database)
		if err := mongo.EnsureJournalIndexes(ctx, mongo.JournalCollection(db, a.cfg.Journal.Collection)); err != nil {
			a.log.Warn().Err(err).Msg("journal indexes not ensured")
		}
		journal = mongo.NewMongoJournalRepository(db, a.cfg.Journal.Collection)
	}

	var snapshots storage.SnapshotStore
	if a.cfg.Snapshots.Enabled {
		store, err := storage.NewS3Storage(ctx, a.cfg.Snapshots, a.log)
		if err != nil {
			return fmt.Errorf("snapshot storage: %w", err)
		}
		snapshots = store
	}

	limit := a.cfg.Sync.MaxConcurrency
	sessionRepo := rest.NewSessionRepository(client)
	a.recorder = service.NewBatchRecorder(journal, snapshots, a.metrics, a.cfg.Snapshots.KeepOnSuccess, a.log)
	a.exercises = service.NewExerciseService(rest.NewExerciseRepository(client))
	a.plans = service.NewPlanService(rest.NewPlanRepository(client), sessionRepo, a.recorder, limit, a.log)
	a.sessions = service.NewSessionService(sessionRepo, rest.NewExerciseExecutionRepository(client), a.exercises, a.recorder, limit, a.log)
	a.workouts = service.NewWorkoutService(rest.NewWorkoutRepository(client), limit, a.log)
	return nil
}

// close releases connections and writes the metrics textfile, if configured.
func (a *cliApp) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn().Err(err).Str("path", a.cfg.Metrics.Textfile).Msg("metrics textfile not written")
	}
}

// withServices is the RunE wrapper for commands talking to the API.
func (a *cliApp) withServices(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.connect(cmd.Context()); err != nil {
			return err
		}
		if err := run(cmd, args); err != nil {
			return &syncError{message: service.UserMessage(err), err: err}
		}
		return nil
	}
}

// syncError carries the text shown for a failed service call.
type syncError struct {
	message string
	err     error
}

func (e *syncError) Error() string { return e.message }
func (e *syncError) Unwrap() error { return e.err }
