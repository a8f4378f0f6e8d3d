package core

import "time"

// Message is a chat line as stored in a circle's history.
// Author fields are copied from the member at post time.
type Message struct {
	From      string
	Flair     string
	Avatar    string
	Text      string
	Style     string
	CreatedAt time.Time
}
