package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/engine"
)

var linkCmd = &cobra.Command{
	Use:   "link [project/note-id] [project/note-id]",
	Short: "Link two notes",
	Long:  "Create a manual link from the first note to the second. The target gets a backlink so the connection is visible from both sides.",
	Args:  cobra.ExactArgs(2),
	RunE:  runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	srcProject, srcID, err := splitRef(args[0])
	if err != nil {
		return err
	}
	tgtProject, tgtID, err := splitRef(args[1])
	if err != nil {
		return err
	}

	result, err := eng.LinkNotes(srcProject, srcID, tgtProject, tgtID)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink [project/note-id] [project/note-id]",
	Short: "Remove a link between two notes",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnlink,
}

func runUnlink(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	srcProject, srcID, err := splitRef(args[0])
	if err != nil {
		return err
	}
	tgtProject, tgtID, err := splitRef(args[1])
	if err != nil {
		return err
	}

	result, err := eng.UnlinkNotes(srcProject, srcID, tgtProject, tgtID)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

var linksCmd = &cobra.Command{
	Use:   "links [project/note-id]",
	Short: "List a note's links",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinks,
}

func runLinks(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	links, err := eng.LinkedNotes(project, id)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No links.")
		return nil
	}
	for _, l := range links {
		if l.Relevance > 0 {
			fmt.Printf("[%s] %s/%s  %s (score: %d)\n", l.Type, l.Project, l.NoteID, l.Title, l.Relevance)
		} else {
			fmt.Printf("[%s] %s/%s  %s\n", l.Type, l.Project, l.NoteID, l.Title)
		}
	}
	return nil
}

var (
	relatedLimit    int
	relatedMinScore int
)

var relatedCmd = &cobra.Command{
	Use:   "related [project/note-id]",
	Short: "Find notes similar to this one",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func runRelated(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	links, err := eng.FindRelatedNotes(project, id, relatedLimit, relatedMinScore)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No related notes found.")
		return nil
	}
	for i, l := range links {
		fmt.Printf("%d. [%d] %s/%s  %s\n", i+1, l.Relevance, l.Project, l.NoteID, l.Title)
	}
	return nil
}

var (
	autolinkLimit    int
	autolinkMinScore int
)

var autolinkCmd = &cobra.Command{
	Use:   "autolink [project/note-id]",
	Short: "Link a note to its strongest matches",
	Long:  "Find the highest-scoring similar notes and store them as related links on this note. Already-linked notes are skipped, so re-running is safe.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutolink,
}

func runAutolink(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	added, err := eng.AutoLinkRelatedNotes(project, id, autolinkLimit, autolinkMinScore)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		fmt.Println("No new links.")
		return nil
	}
	for _, l := range added {
		fmt.Printf("+ [%d] %s/%s  %s\n", l.Relevance, l.Project, l.NoteID, l.Title)
	}
	return nil
}

var backlinksCmd = &cobra.Command{
	Use:   "backlinks [project/note-id]",
	Short: "Find notes that mention this one",
	Long:  "Scan the vault for notes whose text mentions this note's title, either as a [[wikilink]] or as a plain mention.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacklinks,
}

func runBacklinks(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}
	project, id, err := splitRef(args[0])
	if err != nil {
		return err
	}

	links, err := eng.FindBacklinks(project, id)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No backlinks found.")
		return nil
	}
	for _, l := range links {
		fmt.Printf("%s/%s  %s\n", l.Project, l.NoteID, l.Title)
	}
	return nil
}

var (
	graphProject string
	graphDOT     bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the link graph",
	Long:  "Build the undirected graph of all note links, as JSON or Graphviz DOT.",
	RunE:  runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	eng, _, err := openEngine()
	if err != nil {
		return err
	}

	graph, err := eng.NoteGraph(graphProject)
	if err != nil {
		return err
	}

	if graphDOT {
		fmt.Print(renderDOT(graph))
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}

// renderDOT emits the graph in Graphviz DOT form for piping into dot(1).
func renderDOT(g *engine.Graph) string {
	var b strings.Builder
	b.WriteString("graph notes {\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, n.Title)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -- %q [label=%q];\n", e.Source, e.Target, e.Type)
	}
	b.WriteString("}\n")
	return b.String()
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", engine.DefaultRelatedLimit, "Maximum number of results")
	relatedCmd.Flags().IntVar(&relatedMinScore, "min-score", engine.DefaultRelatedMinScore, "Minimum similarity score")

	autolinkCmd.Flags().IntVarP(&autolinkLimit, "limit", "n", engine.DefaultAutoLinkLimit, "Maximum number of links to add")
	autolinkCmd.Flags().IntVar(&autolinkMinScore, "min-score", engine.DefaultAutoLinkMinScore, "Minimum similarity score")

	graphCmd.Flags().StringVarP(&graphProject, "project", "p", "", "Limit to one project")
	graphCmd.Flags().BoolVar(&graphDOT, "dot", false, "Emit Graphviz DOT instead of JSON")
}
