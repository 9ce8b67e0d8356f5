package cards

// Card is one face of a generated batch. ImageRef stays empty until the
// card is first revealed and is never reassigned afterwards.
type Card struct {
	ID          int    `json:"id"`
	Color       string `json:"color"`
	ImageRef    string `json:"imageReference,omitempty"`
	ImageKind   string `json:"imageKind,omitempty"`
	Revealed    bool   `json:"revealed"`
	ImageFailed bool   `json:"imageFailed"`
}

// HasImage reports whether an image has been assigned.
func (c Card) HasImage() bool { return c.ImageRef != "" }
