package story

import "strings"

type FilterOptions struct {
	FreeWords string // space separated, all must match
	HasImages bool   // only stories saved with at least one card image
}

// Filter keeps the stories whose title or content contains every free word,
// case-insensitively.
func Filter(stories []Story, opt FilterOptions) []Story {
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	out := []Story{}
	for _, st := range stories {
		if opt.HasImages && len(st.CardImages) == 0 {
			continue
		}
		if len(kw) > 0 {
			title := strings.ToLower(st.Title)
			content := strings.ToLower(st.Content)
			ok := true
			for _, k := range kw {
				if !strings.Contains(title, k) && !strings.Contains(content, k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, st)
	}
	return out
}
