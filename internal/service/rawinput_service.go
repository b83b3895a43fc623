package service

import (
	"fmt"
	"time"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/llm"
	"notesmith-server/internal/repository"

	"github.com/google/uuid"
)

// RawInputService owns the note-generation pipeline: persist source text,
// invoke the LLM, fan the parsed batch out into note records, and keep the
// notebook's latest-raw-input pointer current.
type RawInputService struct {
	rawInputRepo repository.RawInputRepository
	noteRepo     repository.NoteRepository
	notebookRepo repository.NotebookRepository
	llm          *llm.Service
}

func NewRawInputService(
	rawInputRepo repository.RawInputRepository,
	noteRepo repository.NoteRepository,
	notebookRepo repository.NotebookRepository,
	llmService *llm.Service,
) *RawInputService {
	return &RawInputService{
		rawInputRepo: rawInputRepo,
		noteRepo:     noteRepo,
		notebookRepo: notebookRepo,
		llm:          llmService,
	}
}

// List returns the caller's raw inputs, optionally narrowed to one notebook.
func (s *RawInputService) List(ownerID, notebookID string) ([]*domain.RawInput, error) {
	if notebookID != "" {
		if _, err := s.ownedNotebook(ownerID, notebookID); err != nil {
			return nil, err
		}
		return s.rawInputRepo.ListByNotebook(notebookID)
	}
	return s.rawInputRepo.ListByOwner(ownerID)
}

func (s *RawInputService) Get(ownerID, rawInputID string) (*domain.RawInput, error) {
	rawInput, err := s.rawInputRepo.FindByID(rawInputID)
	if err != nil || rawInput.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return rawInput, nil
}

// Create persists user-supplied source text and points the notebook's
// latest-raw-input at it.
func (s *RawInputService) Create(ownerID string, req *domain.CreateRawInputRequest) (*domain.RawInput, error) {
	if _, err := s.ownedNotebook(ownerID, req.Notebook); err != nil {
		return nil, err
	}

	inputType := req.InputType
	if inputType == "" {
		inputType = domain.InputTypeText
	}

	rawInput := &domain.RawInput{
		ID:         uuid.New().String(),
		Content:    req.Content,
		InputType:  inputType,
		OwnerID:    ownerID,
		NotebookID: req.Notebook,
		CreatedAt:  time.Now(),
	}

	if err := s.rawInputRepo.Create(rawInput); err != nil {
		return nil, err
	}

	if err := s.notebookRepo.SetLatestRawInput(req.Notebook, &rawInput.ID); err != nil {
		return nil, fmt.Errorf("failed to update notebook pointer: %w", err)
	}

	return rawInput, nil
}

// Delete removes a raw input. If it was the notebook's latest, the pointer
// is moved to the next most recent raw input, or cleared.
func (s *RawInputService) Delete(ownerID, rawInputID string) error {
	rawInput, err := s.Get(ownerID, rawInputID)
	if err != nil {
		return err
	}

	if err := s.rawInputRepo.Delete(rawInput.ID); err != nil {
		return err
	}

	notebook, err := s.notebookRepo.FindByID(rawInput.NotebookID)
	if err != nil {
		return nil // notebook already gone, nothing to re-point
	}

	if notebook.LatestRawInput == nil || *notebook.LatestRawInput != rawInput.ID {
		return nil
	}

	remaining, err := s.rawInputRepo.ListByNotebook(rawInput.NotebookID)
	if err != nil {
		return err
	}

	var next *string
	if len(remaining) > 0 {
		next = &remaining[0].ID // list is newest first
	}

	return s.notebookRepo.SetLatestRawInput(rawInput.NotebookID, next)
}

// GenerateNotes persists the submitted text as a raw input, asks the LLM to
// split it into notes, and stores one note per element, each linked to that
// raw input. If extraction fails, the raw input record remains (there is no
// enclosing transaction) and no notes are created.
func (s *RawInputService) GenerateNotes(ownerID string, req *domain.GenerateNotesRequest) (*domain.GenerationResult, error) {
	if _, err := s.ownedNotebook(ownerID, req.Notebook); err != nil {
		return nil, err
	}
	return s.generate(ownerID, req.Notebook, req.Content, "")
}

// GenerateFromTopic first expands a bare topic into research text via the
// LLM, then runs the raw-text pipeline on that text.
func (s *RawInputService) GenerateFromTopic(ownerID string, req *domain.GenerateFromTopicRequest) (*domain.GenerationResult, error) {
	if _, err := s.ownedNotebook(ownerID, req.Notebook); err != nil {
		return nil, err
	}

	research, err := s.llm.Research(req.Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to generate notes from topic: %w", err)
	}

	return s.generate(ownerID, req.Notebook, research, req.Topic)
}

func (s *RawInputService) generate(ownerID, notebookID, content, topic string) (*domain.GenerationResult, error) {
	now := time.Now()
	rawInput := &domain.RawInput{
		ID:         uuid.New().String(),
		Content:    content,
		InputType:  domain.InputTypeText,
		OwnerID:    ownerID,
		NotebookID: notebookID,
		CreatedAt:  now,
	}

	if err := s.rawInputRepo.Create(rawInput); err != nil {
		return nil, err
	}

	generated, err := s.llm.GenerateNotes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to generate notes from LLM: %w", err)
	}

	notes := make([]*domain.Note, 0, len(generated))
	for i, g := range generated {
		// Staggered timestamps keep the emission order stable under
		// created-at sorting
		createdAt := now.Add(time.Duration(i) * time.Millisecond)

		note := &domain.Note{
			ID:         uuid.New().String(),
			Title:      g.Title,
			Content:    g.Content,
			Supporting: g.Supporting,
			RawInputID: rawInput.ID,
			Tags:       []string{},
			OwnerID:    ownerID,
			NotebookID: notebookID,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		}

		if err := s.noteRepo.Create(note); err != nil {
			return nil, fmt.Errorf("failed to store generated note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := s.notebookRepo.SetLatestRawInput(notebookID, &rawInput.ID); err != nil {
		return nil, fmt.Errorf("failed to update notebook pointer: %w", err)
	}

	return &domain.GenerationResult{
		Topic:    topic,
		RawInput: rawInput,
		Notes:    notes,
	}, nil
}

func (s *RawInputService) ownedNotebook(ownerID, notebookID string) (*domain.Notebook, error) {
	notebook, err := s.notebookRepo.FindByID(notebookID)
	if err != nil || notebook.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return notebook, nil
}
