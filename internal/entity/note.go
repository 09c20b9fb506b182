package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	NoteGeneral = "general"
	NoteCall    = "call"
	NoteEmail   = "email"
	NoteMeeting = "meeting"
	NoteTask    = "task"
)

// Note is a free-text staff annotation on a lead. Creating one also
// appends a note_added activity.
type Note struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Type      string    `json:"type"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNote(leadID, noteType, body, author string) *Note {
	if noteType == "" {
		noteType = NoteGeneral
	}
	return &Note{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      noteType,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now(),
	}
}

func ValidNoteType(t string) bool {
	switch t {
	case NoteGeneral, NoteCall, NoteEmail, NoteMeeting, NoteTask:
		return true
	}
	return false
}

type NoteRepositoryInterface interface {
	Create(ctx context.Context, n *Note) error
	ListByLeadID(ctx context.Context, leadID string) ([]*Note, error)
}
