package engine

import (
	"github.com/tmuir/minute/internal/note"
)

// GraphNode is a note in the derived graph.
type GraphNode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Project string `json:"project"`
}

// GraphEdge connects two notes. Source and Target are note IDs; Type is
// the type of the first link entry encountered for the pair.
type GraphEdge struct {
	Source string        `json:"source"`
	Target string        `json:"target"`
	Type   note.LinkType `json:"type"`
}

// Graph is the derived node/edge view of a note pool. It is never
// persisted.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph turns a note pool into a graph. Every note becomes a node,
// isolated or not. Each stored link becomes an edge, deduplicated by an
// undirected key, so the manual and backlink halves of a pair collapse to
// one edge. The surviving edge carries the type of whichever link was seen
// first in pool order, then link order.
func BuildGraph(pool []note.Note) *Graph {
	g := &Graph{
		Nodes: make([]GraphNode, 0, len(pool)),
		Edges: []GraphEdge{},
	}

	seen := make(map[string]bool)
	for i := range pool {
		n := &pool[i]
		g.Nodes = append(g.Nodes, GraphNode{ID: n.ID, Title: n.Title, Project: n.Project})

		for _, l := range n.LinkedNotes {
			key := edgeKey(n.ID, l.NoteID)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.Edges = append(g.Edges, GraphEdge{Source: n.ID, Target: l.NoteID, Type: l.Type})
		}
	}
	return g
}

// NoteGraph builds the graph for one project, or for every configured
// project when projectFilter is empty.
func (e *Engine) NoteGraph(projectFilter string) (*Graph, error) {
	var (
		pool []note.Note
		err  error
	)
	if projectFilter != "" {
		pool, err = e.pool([]string{projectFilter})
	} else {
		pool, err = e.allNotes()
	}
	if err != nil {
		return nil, err
	}
	return BuildGraph(pool), nil
}

// edgeKey is the undirected identity of a note pair: the two IDs sorted
// lexicographically and joined.
func edgeKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
