package core

// DefaultAvatar is the glyph every member is shown with.
const DefaultAvatar = "👤"

// Member is one connection's presence in a circle.
type Member struct {
	ConnID   string
	Nickname string
	Flair    string
	Token    string
	Avatar   string
}

