package repository

import (
	"context"
	"fmt"
	"sort"

	"notesmith-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type QARepository interface {
	Create(qa *domain.QA) error
	FindByID(id string) (*domain.QA, error)
	ListByNote(ownerID, noteID string) ([]*domain.QA, error)
	Delete(id string) error
	DeleteByNote(noteID string) error
	DeleteByNotes(noteIDs []string) error
}

type qaDoc struct {
	Rev  string `json:"_rev,omitempty"`
	Kind string `json:"kind"`
	domain.QA
}

type qaRepository struct {
	client *kivik.Client
	dbName string
}

func NewQARepository(client *kivik.Client, dbName string) QARepository {
	return &qaRepository{
		client: client,
		dbName: dbName,
	}
}

func qaDocID(id string) string {
	return fmt.Sprintf("qa:%s", id)
}

func (r *qaRepository) Create(qa *domain.QA) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), qaDocID(qa.ID), qaDoc{Kind: "qa", QA: *qa})
	if err != nil {
		return fmt.Errorf("failed to create qa: %w", translateError(err))
	}

	return nil
}

func (r *qaRepository) FindByID(id string) (*domain.QA, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), qaDocID(id))

	var doc qaDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, translateError(err)
	}

	return &doc.QA, nil
}

func (r *qaRepository) ListByNote(ownerID, noteID string) ([]*domain.QA, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":  "qa",
			"owner": ownerID,
			"note":  noteID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list qa history: %w", err)
	}
	defer rows.Close()

	var qas []*domain.QA
	for rows.Next() {
		var doc qaDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		qa := doc.QA
		qas = append(qas, &qa)
	}

	// Newest first
	sort.Slice(qas, func(i, j int) bool {
		return qas[i].CreatedAt.After(qas[j].CreatedAt)
	})

	return qas, nil
}

func (r *qaRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := qaDocID(id)

	row := db.Get(context.Background(), docID)

	var doc qaDoc
	if err := row.ScanDoc(&doc); err != nil {
		return translateError(err)
	}

	if _, err := db.Delete(context.Background(), docID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete qa: %w", translateError(err))
	}

	return nil
}

func (r *qaRepository) DeleteByNote(noteID string) error {
	return r.DeleteByNotes([]string{noteID})
}

func (r *qaRepository) DeleteByNotes(noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}

	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind": "qa",
			"note": map[string]interface{}{"$in": noteIDs},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list qa entries for deletion: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var doc qaDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.QA.ID)
	}

	for _, id := range ids {
		if err := r.Delete(id); err != nil && err != ErrNotFound {
			return err
		}
	}

	return nil
}
