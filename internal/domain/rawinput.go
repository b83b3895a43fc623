package domain

import "time"

type InputType string

const (
	InputTypeText InputType = "text"
	InputTypePDF  InputType = "pdf"
)

// RawInput is the source text a batch of notes was extracted from. It is
// written once and never updated.
type RawInput struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	InputType  InputType `json:"inputType"`
	OwnerID    string    `json:"owner"`
	NotebookID string    `json:"notebook"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateRawInputRequest struct {
	Content   string    `json:"content" validate:"required"`
	Notebook  string    `json:"notebook" validate:"required"`
	InputType InputType `json:"inputType" validate:"omitempty,oneof=text pdf"`
}

type GenerateNotesRequest struct {
	Content  string `json:"content" validate:"required"`
	Notebook string `json:"notebook" validate:"required"`
}

type GenerateFromTopicRequest struct {
	Topic    string `json:"topic" validate:"required"`
	Notebook string `json:"notebook" validate:"required"`
}

// GenerationResult is the outcome of one note-generation run: the shared
// RawInput plus the notes extracted from it, in the order they were emitted.
type GenerationResult struct {
	Topic    string    `json:"topic,omitempty"`
	RawInput *RawInput `json:"rawInput"`
	Notes    []*Note   `json:"notes"`
}
