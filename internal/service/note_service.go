package service

import (
	"fmt"
	"time"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/llm"
	"notesmith-server/internal/repository"

	"github.com/google/uuid"
)

type NoteService struct {
	noteRepo     repository.NoteRepository
	qaRepo       repository.QARepository
	rawInputRepo repository.RawInputRepository
	notebookRepo repository.NotebookRepository
	llm          *llm.Service
}

func NewNoteService(
	noteRepo repository.NoteRepository,
	qaRepo repository.QARepository,
	rawInputRepo repository.RawInputRepository,
	notebookRepo repository.NotebookRepository,
	llmService *llm.Service,
) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		qaRepo:       qaRepo,
		rawInputRepo: rawInputRepo,
		notebookRepo: notebookRepo,
		llm:          llmService,
	}
}

// List returns the caller's notes in one notebook. Listing without a
// notebook yields an empty result rather than every note the user owns.
func (s *NoteService) List(ownerID, notebookID string) ([]*domain.Note, error) {
	if notebookID == "" {
		return []*domain.Note{}, nil
	}
	notes, err := s.noteRepo.ListByNotebook(ownerID, notebookID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}

func (s *NoteService) Create(ownerID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	notebook, err := s.notebookRepo.FindByID(req.Notebook)
	if err != nil || notebook.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	rawInput, err := s.rawInputRepo.FindByID(req.RawInput)
	if err != nil || rawInput.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	note := &domain.Note{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		Supporting: req.Supporting,
		RawInputID: rawInput.ID,
		Tags:       tags,
		OwnerID:    ownerID,
		NotebookID: notebook.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}

	return note, nil
}

// Get returns a note together with its Q&A history.
func (s *NoteService) Get(ownerID, noteID string) (*domain.NoteDetail, error) {
	note, err := s.ownedNote(ownerID, noteID)
	if err != nil {
		return nil, err
	}

	qaHistory, err := s.qaRepo.ListByNote(ownerID, note.ID)
	if err != nil {
		return nil, err
	}
	if qaHistory == nil {
		qaHistory = []*domain.QA{}
	}

	return &domain.NoteDetail{
		Note:      note,
		QAHistory: qaHistory,
	}, nil
}

func (s *NoteService) Update(ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.ownedNote(ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Supporting != nil {
		note.Supporting = *req.Supporting
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}
	if req.IsArchived != nil {
		note.IsArchived = *req.IsArchived
	}
	if req.IsFavorite != nil {
		note.IsFavorite = *req.IsFavorite
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}

	return note, nil
}

// Delete removes a note and its Q&A history.
func (s *NoteService) Delete(ownerID, noteID string) error {
	note, err := s.ownedNote(ownerID, noteID)
	if err != nil {
		return err
	}

	if err := s.qaRepo.DeleteByNote(note.ID); err != nil {
		return fmt.Errorf("failed to delete qa entries: %w", err)
	}

	return s.noteRepo.Delete(note.ID)
}

// Ask answers a question about a note via the LLM and records the exchange,
// including the exact context strings sent to the model. The request may
// override either context string; otherwise the note's raw input content and
// the note content are used.
func (s *NoteService) Ask(ownerID, noteID string, req *domain.AskQuestionRequest) (*domain.AskQuestionResponse, error) {
	note, err := s.ownedNote(ownerID, noteID)
	if err != nil {
		return nil, err
	}

	rawContext := req.RawContext
	if rawContext == "" && note.RawInputID != "" {
		if rawInput, err := s.rawInputRepo.FindByID(note.RawInputID); err == nil {
			rawContext = rawInput.Content
		}
	}

	noteContent := req.GeneratedNote
	if noteContent == "" {
		noteContent = note.Content
	}

	answer, err := s.llm.AnswerQuestion(rawContext, noteContent, req.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to get answer from LLM: %w", err)
	}

	qa := &domain.QA{
		ID:               uuid.New().String(),
		NoteID:           note.ID,
		OwnerID:          ownerID,
		Question:         req.Question,
		Answer:           answer,
		RawContext:       rawContext,
		GeneratedContent: noteContent,
		CreatedAt:        time.Now(),
	}

	if err := s.qaRepo.Create(qa); err != nil {
		return nil, fmt.Errorf("failed to store qa entry: %w", err)
	}

	return &domain.AskQuestionResponse{
		Answer: answer,
		QAID:   qa.ID,
	}, nil
}

func (s *NoteService) QAHistory(ownerID, noteID string) ([]*domain.QA, error) {
	if _, err := s.ownedNote(ownerID, noteID); err != nil {
		return nil, err
	}

	qaHistory, err := s.qaRepo.ListByNote(ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if qaHistory == nil {
		qaHistory = []*domain.QA{}
	}
	return qaHistory, nil
}

func (s *NoteService) DeleteQA(ownerID, noteID, qaID string) error {
	if _, err := s.ownedNote(ownerID, noteID); err != nil {
		return err
	}

	qa, err := s.qaRepo.FindByID(qaID)
	if err != nil || qa.OwnerID != ownerID || qa.NoteID != noteID {
		return ErrNotFound
	}

	return s.qaRepo.Delete(qa.ID)
}

func (s *NoteService) ownedNote(ownerID, noteID string) (*domain.Note, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil || note.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return note, nil
}
