package domain

import "time"

type Notebook struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	OwnerID string `json:"owner"`

	// ID of the most recently created RawInput in this notebook, nil until
	// source material is first associated.
	LatestRawInput *string `json:"latestRawInput"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateNotebookRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Icon string `json:"icon"`
}

type UpdateNotebookRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
	Icon *string `json:"icon" validate:"omitempty,min=1"`
}

type RawContentResponse struct {
	RawContent *string   `json:"rawContent"`
	InputType  InputType `json:"inputType,omitempty"`
	RawInputID string    `json:"rawInputId,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	Message    string    `json:"message,omitempty"`
}
