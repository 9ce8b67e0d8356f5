package cards

import "fmt"

// RevealPolicy decides what flipping an already revealed card does.
type RevealPolicy string

const (
	// PolicyToggle hides the card again.
	PolicyToggle RevealPolicy = "toggle"
	// PolicySticky leaves it revealed.
	PolicySticky RevealPolicy = "sticky"
)

func ParsePolicy(s string) (RevealPolicy, error) {
	switch RevealPolicy(s) {
	case "", PolicyToggle:
		return PolicyToggle, nil
	case PolicySticky:
		return PolicySticky, nil
	}
	return "", fmt.Errorf("unknown reveal policy %q", s)
}
