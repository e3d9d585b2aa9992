// Package common contains shared constants and sentinel errors used across
// iNotebook server components.
package common

const (
	// AuthTokenHeaderName is the request header carrying the access token.
	AuthTokenHeaderName = "auth-token"

	// DefaultNoteTag is assigned to notes created without a tag.
	DefaultNoteTag = "General"
)
