package imagepkg

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

const DefaultIllustrationCount = 37

// DefaultIllustrations lists the bundled illustration assets.
func DefaultIllustrations(prefix string, count int) []string {
	if prefix == "" {
		prefix = "/assets"
	}
	prefix = strings.TrimRight(prefix, "/")
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, fmt.Sprintf("%s/illustration%d.png", prefix, i))
	}
	return out
}

// LoadIllustrationsCSV reads an illustration manifest. The file needs a
// header row with a "path" column; blank and "-" cells are skipped and
// duplicates keep their first position.
func LoadIllustrationsCSV(path string) ([]string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "path") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("csv %s has no path column", path)
	}

	seen := map[string]bool{}
	out := []string{}
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		p := strings.TrimSpace(row[col])
		if p == "" || p == "-" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("csv %s lists no illustrations", path)
	}
	return out, nil
}
