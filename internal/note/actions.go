package note

import (
	"regexp"
	"strings"
)

// Action extraction is a fixed set of line-oriented heuristics. Each line of
// the note body is tested against the patterns below; the first match wins
// so a checkbox line is never double-counted by the prefix pattern.
var (
	// "- [ ] call the vendor" / "* [x] send minutes"
	checkboxRe = regexp.MustCompile(`^\s*[-*]\s*\[([ xX]?)\]\s*(.+)$`)

	// "TODO: book the room" / "Action item: circulate agenda"
	prefixRe = regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?(?:action item|action|todo|task)\s*[:-]\s*(.+)$`)

	// "Alice will send the deck by Friday" / "Bob to review the draft"
	commitmentRe = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:will|to)\s+([^.!?\n]+)`)

	// Inline annotations on any matched description.
	assigneeTagRe = regexp.MustCompile(`@([A-Za-z][\w.-]*)`)
	dueRe         = regexp.MustCompile(`(?i)\b(?:by|due|before)\s+(\d{4}-\d{2}-\d{2}|monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|today|eod|eow)\b`)
	priorityRe    = regexp.MustCompile(`(?i)(!high|!low|\burgent\b|\basap\b)`)
)

// ExtractActionPoints scans free text for action items. Results are in line
// order and carry no IDs; the store assigns those on create.
func ExtractActionPoints(text string) []ActionPoint {
	var points []ActionPoint
	for _, line := range strings.Split(text, "\n") {
		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			ap := annotate(m[2])
			if strings.EqualFold(m[1], "x") {
				ap.Status = "done"
			}
			points = append(points, ap)
			continue
		}
		if m := prefixRe.FindStringSubmatch(line); m != nil {
			points = append(points, annotate(m[1]))
			continue
		}
		if m := commitmentRe.FindStringSubmatch(line); m != nil {
			ap := annotate(m[1] + " " + m[2])
			if ap.Assignee == "" {
				ap.Assignee = m[1]
			}
			points = append(points, ap)
		}
	}
	return points
}

// annotate builds an ActionPoint from a raw description, pulling out
// @assignee, due-date, and priority markers.
func annotate(desc string) ActionPoint {
	ap := ActionPoint{Status: "open"}

	if m := assigneeTagRe.FindStringSubmatch(desc); m != nil {
		ap.Assignee = m[1]
		desc = strings.Replace(desc, m[0], "", 1)
	}
	if m := dueRe.FindStringSubmatch(desc); m != nil {
		ap.DueDate = strings.ToLower(m[1])
	}
	if m := priorityRe.FindStringSubmatch(desc); m != nil {
		switch strings.ToLower(m[1]) {
		case "!low":
			ap.Priority = "low"
		default:
			ap.Priority = "high"
		}
		if strings.HasPrefix(m[1], "!") {
			desc = strings.Replace(desc, m[1], "", 1)
		}
	}

	ap.Description = strings.TrimSpace(strings.Join(strings.Fields(desc), " "))
	return ap
}
