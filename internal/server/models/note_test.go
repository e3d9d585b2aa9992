package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNoteUpdate_Fields(t *testing.T) {
	tests := []struct {
		name string
		in   NoteUpdate
		want map[string]string
	}{
		{name: "nothing", in: NoteUpdate{}, want: map[string]string{}},
		{name: "empty strings ignored", in: NoteUpdate{Title: ptr(""), Tag: ptr("")}, want: map[string]string{}},
		{
			name: "all",
			in:   NoteUpdate{Title: ptr("t"), Description: ptr("d"), Tag: ptr("g")},
			want: map[string]string{"title": "t", "description": "d", "tag": "g"},
		},
		{name: "only tag", in: NoteUpdate{Tag: ptr("work")}, want: map[string]string{"tag": "work"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Fields())
		})
	}
}

func TestNoteUpdate_Apply(t *testing.T) {
	n := &Note{ID: "n1", UserID: "u1", Title: "old", Description: "old description", Tag: "General"}

	NoteUpdate{Title: ptr("new"), Description: ptr("")}.Apply(n)

	assert.Equal(t, &Note{ID: "n1", UserID: "u1", Title: "new", Description: "old description", Tag: "General"}, n)
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", UserName: "alice", Email: "a@x.com", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"username":"alice"`)
}
