package service

import (
	"fmt"
	"time"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/repository"

	"github.com/google/uuid"
)

const defaultNotebookIcon = "FiBook"

type NotebookService struct {
	notebookRepo repository.NotebookRepository
	noteRepo     repository.NoteRepository
	rawInputRepo repository.RawInputRepository
	qaRepo       repository.QARepository
}

func NewNotebookService(
	notebookRepo repository.NotebookRepository,
	noteRepo repository.NoteRepository,
	rawInputRepo repository.RawInputRepository,
	qaRepo repository.QARepository,
) *NotebookService {
	return &NotebookService{
		notebookRepo: notebookRepo,
		noteRepo:     noteRepo,
		rawInputRepo: rawInputRepo,
		qaRepo:       qaRepo,
	}
}

func (s *NotebookService) Create(ownerID string, req *domain.CreateNotebookRequest) (*domain.Notebook, error) {
	icon := req.Icon
	if icon == "" {
		icon = defaultNotebookIcon
	}

	now := time.Now()
	notebook := &domain.Notebook{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Icon:           icon,
		OwnerID:        ownerID,
		LatestRawInput: nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.notebookRepo.Create(notebook); err != nil {
		return nil, err
	}

	return notebook, nil
}

func (s *NotebookService) List(ownerID string) ([]*domain.Notebook, error) {
	return s.notebookRepo.ListByOwner(ownerID)
}

// Get returns the notebook if it exists and belongs to the caller. A
// notebook owned by someone else is reported as not found.
func (s *NotebookService) Get(ownerID, notebookID string) (*domain.Notebook, error) {
	notebook, err := s.notebookRepo.FindByID(notebookID)
	if err != nil || notebook.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return notebook, nil
}

func (s *NotebookService) Update(ownerID, notebookID string, req *domain.UpdateNotebookRequest) (*domain.Notebook, error) {
	notebook, err := s.Get(ownerID, notebookID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		notebook.Name = *req.Name
	}
	if req.Icon != nil {
		notebook.Icon = *req.Icon
	}
	notebook.UpdatedAt = time.Now()

	if err := s.notebookRepo.Update(notebook); err != nil {
		return nil, err
	}

	return notebook, nil
}

// Delete removes a notebook and everything hanging off it. Children go
// first, leaves inward: QAs, then notes, then raw inputs, then the notebook
// itself. A failure partway leaves the notebook intact and the delete
// retryable, never an unreachable orphan.
func (s *NotebookService) Delete(ownerID, notebookID string) error {
	notebook, err := s.Get(ownerID, notebookID)
	if err != nil {
		return err
	}

	notes, err := s.noteRepo.ListByNotebook(ownerID, notebook.ID)
	if err != nil {
		return fmt.Errorf("failed to list notes for cascade delete: %w", err)
	}

	noteIDs := make([]string, 0, len(notes))
	for _, n := range notes {
		noteIDs = append(noteIDs, n.ID)
	}

	if err := s.qaRepo.DeleteByNotes(noteIDs); err != nil {
		return fmt.Errorf("failed to delete qa entries: %w", err)
	}
	if err := s.noteRepo.DeleteByNotebook(notebook.ID); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	if err := s.rawInputRepo.DeleteByNotebook(notebook.ID); err != nil {
		return fmt.Errorf("failed to delete raw inputs: %w", err)
	}

	return s.notebookRepo.Delete(notebook.ID)
}

// RawContent returns the content of the notebook's most recent raw input,
// or a null payload when no source material has been associated yet.
func (s *NotebookService) RawContent(ownerID, notebookID string) (*domain.RawContentResponse, error) {
	notebook, err := s.Get(ownerID, notebookID)
	if err != nil {
		return nil, err
	}

	if notebook.LatestRawInput == nil {
		return &domain.RawContentResponse{
			RawContent: nil,
			Message:    "No raw content found for this notebook",
		}, nil
	}

	rawInput, err := s.rawInputRepo.FindByID(*notebook.LatestRawInput)
	if err != nil {
		return nil, fmt.Errorf("raw content referenced but not found: %w", ErrNotFound)
	}

	return &domain.RawContentResponse{
		RawContent: &rawInput.Content,
		InputType:  rawInput.InputType,
		RawInputID: rawInput.ID,
		CreatedAt:  rawInput.CreatedAt,
	}, nil
}
