package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/store"
)

var watchAutolink bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and react to note changes",
	Long:  "Watch the note directories for edits made outside minute. With --autolink, new and changed notes are automatically linked to their strongest matches.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		cancel()
	}()

	events, err := eng.Store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", eng.Store.Base)
	for ev := range events {
		fmt.Printf("%s  %s/%s\n", ev.Type, ev.Project, ev.ID)

		if !watchAutolink || ev.Type == store.EventDelete {
			continue
		}
		added, err := eng.AutoLinkRelatedNotes(ev.Project, ev.ID, autolinkLimit, autolinkMinScore)
		if err != nil {
			fmt.Fprintf(os.Stderr, "autolink %s/%s: %v\n", ev.Project, ev.ID, err)
			continue
		}
		for _, l := range added {
			fmt.Printf("  + linked [%d] %s/%s\n", l.Relevance, l.Project, l.NoteID)
		}
	}
	return nil
}

var syncCmd = &cobra.Command{
	Use:   "sync [project/note-id]",
	Short: "Write a Related Notes section into a note",
	Long:  "Append an Obsidian-style \"## Related Notes\" section listing the note's links. Notes that already have one are left alone.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	result, err := eng.SyncObsidian(project, id)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchAutolink, "autolink", false, "Autolink notes as they change")
}
