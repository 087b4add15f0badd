package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/note"
)

var (
	newProject string
	newDate    string
	newTags    []string
	newFile    string
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a note",
	Long:  "Create a note from a file, stdin, or the remaining arguments. Action items (checkboxes, TODO lines, \"Alice will ...\" commitments) are extracted automatically.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}

	title := args[0]
	var content string
	switch {
	case newFile == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	case newFile != "":
		data, err := os.ReadFile(newFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", newFile, err)
		}
		content = string(data)
	default:
		content = strings.Join(args[1:], " ")
	}

	date := newDate
	if date == "" {
		date = time.Now().Format(note.DateLayout)
	}

	n := &note.Note{
		Title:        title,
		Date:         date,
		Project:      newProject,
		Content:      content,
		Tags:         newTags,
		ActionPoints: note.ExtractActionPoints(content),
	}
	if err := eng.Store.CreateNote(n); err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	fmt.Printf("Created %s/%s\n", n.Project, n.ID)
	if len(n.ActionPoints) > 0 {
		fmt.Printf("  %d action point(s) extracted\n", len(n.ActionPoints))
	}
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show [project/note-id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
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

	fmt.Printf("# %s\n", n.Title)
	fmt.Printf("%s · %s", n.Date, n.Project)
	if len(n.Tags) > 0 {
		fmt.Printf(" · #%s", strings.Join(n.Tags, " #"))
	}
	fmt.Println()
	if n.Content != "" {
		fmt.Printf("\n%s\n", n.Content)
	}
	if len(n.ActionPoints) > 0 {
		fmt.Println("\nAction points:")
		for _, ap := range n.ActionPoints {
			printAction(ap)
		}
	}
	if len(n.LinkedNotes) > 0 {
		fmt.Println("\nLinks:")
		for _, l := range n.LinkedNotes {
			if l.Relevance > 0 {
				fmt.Printf("  [%s] %s/%s (score: %d)\n", l.Type, l.Project, l.NoteID, l.Relevance)
			} else {
				fmt.Printf("  [%s] %s/%s\n", l.Type, l.Project, l.NoteID)
			}
		}
	}
	return nil
}

var listProject string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}

	projects := []string{listProject}
	if listProject == "" {
		projects, err = eng.Store.Projects()
		if err != nil {
			return err
		}
	}

	total := 0
	for _, p := range projects {
		notes, err := eng.Store.ListNotes(p)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Printf("%s  %s/%-30s  %s\n", n.Date, n.Project, n.ID, n.Title)
			total++
		}
	}
	if total == 0 {
		fmt.Println("No notes found.")
	}
	return nil
}

var actionsAll bool

var actionsCmd = &cobra.Command{
	Use:   "actions [project/note-id]",
	Short: "List action points",
	Long:  "List open action points for one note, or across the whole vault when no note is given. Use --all to include completed items.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runActions,
}

func runActions(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}

	var notes []note.Note
	if len(args) == 1 {
		project, id, err := splitRef(args[0])
		if err != nil {
			return err
		}
		n, err := eng.Store.GetNote(project, id)
		if err != nil {
			return err
		}
		notes = []note.Note{*n}
	} else {
		projects, err := eng.Store.Projects()
		if err != nil {
			return err
		}
		for _, p := range projects {
			batch, err := eng.Store.ListNotes(p)
			if err != nil {
				return err
			}
			notes = append(notes, batch...)
		}
	}

	found := 0
	for _, n := range notes {
		var open []note.ActionPoint
		for _, ap := range n.ActionPoints {
			if actionsAll || ap.Status != "done" {
				open = append(open, ap)
			}
		}
		if len(open) == 0 {
			continue
		}
		fmt.Printf("%s/%s (%s)\n", n.Project, n.ID, n.Date)
		for _, ap := range open {
			printAction(ap)
		}
		found += len(open)
	}
	if found == 0 {
		fmt.Println("No open action points.")
	}
	return nil
}

func printAction(ap note.ActionPoint) {
	mark := " "
	if ap.Status == "done" {
		mark = "x"
	}
	fmt.Printf("  [%s] %s", mark, ap.Description)
	if ap.Assignee != "" {
		fmt.Printf(" (@%s)", ap.Assignee)
	}
	if ap.DueDate != "" {
		fmt.Printf(" due %s", ap.DueDate)
	}
	if ap.Priority != "" {
		fmt.Printf(" [%s]", ap.Priority)
	}
	fmt.Println()
}

func init() {
	newCmd.Flags().StringVarP(&newProject, "project", "p", "inbox", "Project the note belongs to")
	newCmd.Flags().StringVarP(&newDate, "date", "d", "", "Note date (YYYY-MM-DD, default today)")
	newCmd.Flags().StringSliceVarP(&newTags, "tags", "t", nil, "Tags for the note")
	newCmd.Flags().StringVarP(&newFile, "file", "f", "", "Read content from a file, or - for stdin")

	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Limit to one project")

	actionsCmd.Flags().BoolVar(&actionsAll, "all", false, "Include completed action points")
}
