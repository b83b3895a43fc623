package domain

import "time"

// Note is one extracted idea. Many notes may share a single RawInput, the
// batch they were extracted from.
type Note struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Supporting string   `json:"supporting"`
	RawInputID string   `json:"rawInput"`
	Tags       []string `json:"tags"`
	IsArchived bool     `json:"isArchived"`
	IsFavorite bool     `json:"isFavorite"`
	OwnerID    string   `json:"owner"`
	NotebookID string   `json:"notebook"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateNoteRequest struct {
	Title      string   `json:"title" validate:"required,max=100"`
	Content    string   `json:"content" validate:"required"`
	Supporting string   `json:"supporting"`
	Notebook   string   `json:"notebook" validate:"required"`
	RawInput   string   `json:"rawInput" validate:"required"`
	Tags       []string `json:"tags"`
}

type UpdateNoteRequest struct {
	Title      *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Content    *string   `json:"content" validate:"omitempty,min=1"`
	Supporting *string   `json:"supporting"`
	Tags       *[]string `json:"tags"`
	IsArchived *bool     `json:"isArchived"`
	IsFavorite *bool     `json:"isFavorite"`
}

type NoteDetail struct {
	Note      *Note `json:"note"`
	QAHistory []*QA `json:"qaHistory"`
}

type AskQuestionRequest struct {
	Question string `json:"question" validate:"required"`

	// Optional overrides for the context strings sent to the model. When
	// absent, the note's raw input content and the note content are used.
	RawContext    string `json:"rawContext"`
	GeneratedNote string `json:"generatedNote"`
}

type AskQuestionResponse struct {
	Answer string `json:"answer"`
	QAID   string `json:"qaId"`
}
