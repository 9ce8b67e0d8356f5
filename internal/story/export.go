package story

import (
	"strings"
	"time"
)

// ExportText renders a story as a UTF-8 text download. The filename
// carries the export date.
func ExportText(st Story, now time.Time) (filename, body string) {
	lines := []string{}
	if st.Title != "" {
		lines = append(lines, st.Title, "")
	}
	lines = append(lines, strings.TrimRight(st.Content, "\n"))
	body = strings.Join(lines, "\n") + "\n"
	filename = "storycards_" + now.Format("2006-01-02") + ".txt"
	return filename, body
}
