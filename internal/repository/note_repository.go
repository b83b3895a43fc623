package repository

import (
	"context"
	"fmt"
	"sort"

	"notesmith-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	ListByNotebook(ownerID, notebookID string) ([]*domain.Note, error)
	Update(note *domain.Note) error
	Delete(id string) error
	DeleteByNotebook(notebookID string) error
}

type noteDoc struct {
	Rev  string `json:"_rev,omitempty"`
	Kind string `json:"kind"`
	domain.Note
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id string) string {
	return fmt.Sprintf("note:%s", id)
}

func (r *noteRepository) Create(note *domain.Note) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), noteDocID(note.ID), noteDoc{Kind: "note", Note: *note})
	if err != nil {
		return fmt.Errorf("failed to create note: %w", translateError(err))
	}

	return nil
}

func (r *noteRepository) FindByID(id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), noteDocID(id))

	var doc noteDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, translateError(err)
	}

	return &doc.Note, nil
}

func (r *noteRepository) ListByNotebook(ownerID, notebookID string) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":     "note",
			"owner":    ownerID,
			"notebook": notebookID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var doc noteDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		n := doc.Note
		notes = append(notes, &n)
	}

	// Creation order, oldest first, matching the order the batch was emitted
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})

	return notes, nil
}

func (r *noteRepository) Update(note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(note.ID)

	row := db.Get(context.Background(), docID)

	var doc noteDoc
	if err := row.ScanDoc(&doc); err != nil {
		return fmt.Errorf("failed to fetch note for update: %w", translateError(err))
	}

	doc.Note = *note
	doc.Kind = "note"

	if _, err := db.Put(context.Background(), docID, doc); err != nil {
		return fmt.Errorf("failed to update note: %w", translateError(err))
	}

	return nil
}

func (r *noteRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(id)

	row := db.Get(context.Background(), docID)

	var doc noteDoc
	if err := row.ScanDoc(&doc); err != nil {
		return translateError(err)
	}

	if _, err := db.Delete(context.Background(), docID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", translateError(err))
	}

	return nil
}

func (r *noteRepository) DeleteByNotebook(notebookID string) error {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":     "note",
			"notebook": notebookID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list notes for deletion: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var doc noteDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.Note.ID)
	}

	for _, id := range ids {
		if err := r.Delete(id); err != nil && err != ErrNotFound {
			return err
		}
	}

	return nil
}
