package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"alcyxob/fitness-sync/internal/api"
	"alcyxob/fitness-sync/internal/domain"
)

// seedDocument preloads the reference backend.
type seedDocument struct {
	Exercises []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
	} `yaml:"exercises"`
	Plans []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Sessions    []string `yaml:"sessions"`
	} `yaml:"plans"`
}

var defaultExercises = []domain.Exercise{
	{Name: "Push-up", Category: domain.CategoryBodyWeight, MuscleGroup: []string{"Chest", "Triceps"}},
	{Name: "Pull-up", Category: domain.CategoryBodyWeight, MuscleGroup: []string{"Back", "Biceps"}},
	{Name: "Squat", Category: "Strength", MuscleGroup: []string{"Legs"}},
	{Name: "Bench Press", Category: "Strength", MuscleGroup: []string{"Chest"}},
	{Name: "Deadlift", Category: "Strength", MuscleGroup: []string{"Back", "Legs"}},
}

func newServeFakeCmd(app *cliApp) *cobra.Command {
	var (
		address   string
		jwtSecret string
		seedFile  string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run an in-memory fitness API with the server's ordering rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address == "" {
				address = app.cfg.Server.Address
			}
			if app.log.GetLevel() > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			store := api.NewStore()
			store.SetStrictUpdatePositions(strict)
			if err := seedStore(store, seedFile, cmd.InOrStdin()); err != nil {
				return err
			}

			// --- Start HTTP Server ---
			server := &http.Server{
				Addr:         address,
				Handler:      api.NewRouter(store, jwtSecret, app.log),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  120 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()
			app.log.Info().Str("address", address).Bool("auth", jwtSecret != "").Msg("reference API listening")

			// --- Graceful Shutdown ---
			select {
			case err := <-errCh:
				return fmt.Errorf("listen: %w", err)
			case <-cmd.Context().Done():
			}
			app.log.Info().Msg("shutting down reference API")

			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := server.Shutdown(ctxShutdown); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address, defaults to server.address")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "require HS256 bearer tokens signed with this secret")
	cmd.Flags().BoolVar(&strict, "strict-positions", false, "reject session updates outside positions 1..30, as the production API does")
	cmd.Flags().StringVar(&seedFile, "seed", "", "seed document (YAML); the default exercise library when empty")
	return cmd
}

// seedStore loads exercises and plans into store.
func seedStore(store *api.Store, path string, stdin io.Reader) error {
	if path == "" {
		for _, e := range defaultExercises {
			if _, err := store.CreateExercise(e); err != nil {
				return err
			}
		}
		return nil
	}

	var doc seedDocument
	if err := readYAML(path, stdin, &doc); err != nil {
		return err
	}
	for _, e := range doc.Exercises {
		if _, err := store.CreateExercise(domain.Exercise{Name: e.Name, Category: e.Category}); err != nil {
			return err
		}
	}
	for _, p := range doc.Plans {
		plan, err := store.CreatePlan(p.Name, p.Description)
		if err != nil {
			return fmt.Errorf("seed plan %q: %w", p.Name, err)
		}
		for i, name := range p.Sessions {
			if _, err := store.CreateSession(domain.Session{PlanID: plan.ID, Name: name, OrderID: i + 1}); err != nil {
				return fmt.Errorf("seed session %q: %w", name, err)
			}
		}
	}
	return nil
}
