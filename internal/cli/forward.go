package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/forward"
	"github.com/tmuir/minute/internal/outbox"
)

var forwardDryRun bool

var forwardCmd = &cobra.Command{
	Use:   "forward [project/note-id]",
	Short: "Send a note's action points to calendar and email",
	Long:  "Deliver every open action point of the note to the configured providers. Already-delivered items are skipped, so re-running only sends what is new.",
	Args:  cobra.ExactArgs(1),
	RunE:  runForward,
}

func runForward(cmd *cobra.Command, args []string) error {
	eng, cfg, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	n, err := eng.Store.GetNote(project, id)
	if err != nil {
		return err
	}

	if forwardDryRun {
		// Swap every enabled provider for a mock; an all-none config still
		// gets one so the dry run has output.
		enabled := false
		if cfg.Forward.Calendar != "" && cfg.Forward.Calendar != "none" {
			cfg.Forward.Calendar = "mock"
			enabled = true
		}
		if cfg.Forward.Email != "" && cfg.Forward.Email != "none" {
			cfg.Forward.Email = "mock"
			enabled = true
		}
		if !enabled {
			cfg.Forward.Calendar = "mock"
		}
	}
	cal, err := forward.NewCalendar(cfg.Forward)
	if err != nil {
		return fmt.Errorf("calendar provider: %w", err)
	}
	mail, err := forward.NewEmail(cfg.Forward)
	if err != nil {
		return fmt.Errorf("email provider: %w", err)
	}

	db, err := openOutbox(cfg.Storage.OutboxDB, forwardDryRun)
	if err != nil {
		return err
	}
	defer db.Close()

	fwd := forward.New(db, cal, mail)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	report, err := fwd.ForwardNote(ctx, n)
	if err != nil {
		return err
	}

	fmt.Printf("sent %d, skipped %d, failed %d\n", report.Sent, report.Skipped, report.Failed)
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// openOutbox opens the submission log. Dry runs get an in-memory database
// so nothing is marked as delivered.
func openOutbox(path string, dryRun bool) (*outbox.DB, error) {
	if dryRun {
		return outbox.OpenMemory()
	}
	if path == "" {
		var err error
		path, err = outbox.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve outbox path: %w", err)
		}
	}
	db, err := outbox.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	return db, nil
}

func init() {
	forwardCmd.Flags().BoolVar(&forwardDryRun, "dry-run", false, "Show what would be sent without delivering")
}
