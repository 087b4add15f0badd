package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/forward"
	"github.com/tmuir/minute/internal/outbox"
	"github.com/tmuir/minute/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, cfg, err := openEngine()
	if err != nil {
		return err
	}

	// Forwarding is optional; the server runs without it.
	var fwd *forward.Forwarder
	cal, calErr := forward.NewCalendar(cfg.Forward)
	mail, mailErr := forward.NewEmail(cfg.Forward)
	if calErr != nil {
		fmt.Fprintf(os.Stderr, "warning: calendar forwarding disabled (%v)\n", calErr)
	}
	if mailErr != nil {
		fmt.Fprintf(os.Stderr, "warning: email forwarding disabled (%v)\n", mailErr)
	}
	if cal != nil || mail != nil {
		dbPath := cfg.Storage.OutboxDB
		if dbPath == "" {
			dbPath, err = outbox.DefaultDBPath()
			if err != nil {
				return fmt.Errorf("resolve outbox path: %w", err)
			}
		}
		db, err := outbox.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open outbox: %w", err)
		}
		defer db.Close()
		fwd = forward.New(db, cal, mail)
	}

	srv := server.New(eng, fwd, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "minute serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  notes: %s\n", eng.Store.Base)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
