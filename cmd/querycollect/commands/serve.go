/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serve.go
Description: Serve command. Runs the quiz web server until interrupted and shuts it
down gracefully.
*/

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/server"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// PerformServe starts the web server
func PerformServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	guesses, err := store.Open(ctx, app.Config.Database.Path, app.Logger.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to open guess store: %w", err)
	}
	defer guesses.Close()

	srv := server.New(app.Registry, guesses, app.Logger, app.Config.Generator.NewRand())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(app.Config.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.Logger.GetLogger().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}
