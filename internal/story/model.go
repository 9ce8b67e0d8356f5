package story

import "time"

// Story is a saved piece of writing and the images that inspired it.
type Story struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CardImages []string  `json:"cardImages"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewStory is the payload accepted by Store.Create.
type NewStory struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CardImages []string `json:"cardImages"`
}
