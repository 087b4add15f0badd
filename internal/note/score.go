package note

import "math"

// Scoring weights. Tag overlap dominates, keyword overlap contributes a
// ratio-scaled share, and project, date, and assignee terms break ties.
const (
	tagWeight      = 20
	keywordWeight  = 50
	projectBonus   = 10
	dateWindowDays = 7
	assigneeWeight = 5
)

// Score computes the relatedness of two notes as an integer. Comparing a
// note with itself scores 0. There is no upper bound; heavily tagged notes
// with many shared assignees can exceed 100.
func Score(a, b *Note) int {
	if a.ID == b.ID {
		return 0
	}

	score := 0.0

	// Tag overlap: each entry of a's tag list found in b's counts.
	for _, tag := range a.Tags {
		if containsString(b.Tags, tag) {
			score += tagWeight
		}
	}

	// Keyword overlap, scaled by the larger keyword set.
	kwA := ExtractKeywords(a.Content + " " + a.Title)
	kwB := ExtractKeywords(b.Content + " " + b.Title)
	total := len(kwA)
	if len(kwB) > total {
		total = len(kwB)
	}
	if total > 0 {
		overlap := 0
		for kw := range kwA {
			if kwB[kw] {
				overlap++
			}
		}
		score += math.Round(float64(overlap) / float64(total) * keywordWeight)
	}

	if a.Project == b.Project {
		score += projectBonus
	}

	// Date proximity: notes within a week of each other earn up to 10,
	// fading by one point per day apart.
	dayA, dayB := a.Day(), b.Day()
	if !dayA.IsZero() && !dayB.IsZero() {
		daysDiff := math.Abs(dayA.Sub(dayB).Hours() / 24)
		if daysDiff <= dateWindowDays {
			score += 10 - daysDiff
		}
	}

	// Assignee overlap: each person named on action points in both notes.
	assigneesB := assigneeSet(b)
	for name := range assigneeSet(a) {
		if assigneesB[name] {
			score += assigneeWeight
		}
	}

	return int(math.Round(score))
}

func assigneeSet(n *Note) map[string]bool {
	set := make(map[string]bool)
	for _, ap := range n.ActionPoints {
		if ap.Assignee != "" {
			set[ap.Assignee] = true
		}
	}
	return set
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
