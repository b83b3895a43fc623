package domain

import "time"

// QA records one question/answer exchange anchored to a note, together with
// the exact context strings that produced the answer.
type QA struct {
	ID      string `json:"id"`
	NoteID  string `json:"note"`
	OwnerID string `json:"owner"`

	Question string `json:"question"`
	Answer   string `json:"answer"`

	RawContext       string `json:"rawContext,omitempty"`
	GeneratedContent string `json:"generatedContent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
