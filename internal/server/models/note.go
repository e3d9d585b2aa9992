package models

import "time"

// Note is a personal note. UserID is the owner and is fixed at creation.
type Note struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Tag           string    `json:"tag"`
	AttachmentKey string    `json:"attachment_key,omitempty"`
	CreatedAt     time.Time `json:"date"`
}

// NoteUpdate carries the fields of a partial update. Nil or empty values
// leave the stored field unchanged.
type NoteUpdate struct {
	Title       *string
	Description *string
	Tag         *string
}

// Fields returns the non-empty columns to set, keyed by column name.
func (u NoteUpdate) Fields() map[string]string {
	out := make(map[string]string, 3)
	if u.Title != nil && *u.Title != "" {
		out["title"] = *u.Title
	}
	if u.Description != nil && *u.Description != "" {
		out["description"] = *u.Description
	}
	if u.Tag != nil && *u.Tag != "" {
		out["tag"] = *u.Tag
	}
	return out
}

// Apply copies the non-empty fields of u onto n.
func (u NoteUpdate) Apply(n *Note) {
	for column, value := range u.Fields() {
		switch column {
		case "title":
			n.Title = value
		case "description":
			n.Description = value
		case "tag":
			n.Tag = value
		}
	}
}
