package repository

import (
	"context"
	"fmt"
	"sort"

	"notesmith-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type RawInputRepository interface {
	Create(rawInput *domain.RawInput) error
	FindByID(id string) (*domain.RawInput, error)
	ListByOwner(ownerID string) ([]*domain.RawInput, error)
	ListByNotebook(notebookID string) ([]*domain.RawInput, error)
	Delete(id string) error
	DeleteByNotebook(notebookID string) error
}

type rawInputDoc struct {
	Rev  string `json:"_rev,omitempty"`
	Kind string `json:"kind"`
	domain.RawInput
}

type rawInputRepository struct {
	client *kivik.Client
	dbName string
}

func NewRawInputRepository(client *kivik.Client, dbName string) RawInputRepository {
	return &rawInputRepository{
		client: client,
		dbName: dbName,
	}
}

func rawInputDocID(id string) string {
	return fmt.Sprintf("rawinput:%s", id)
}

func (r *rawInputRepository) Create(rawInput *domain.RawInput) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), rawInputDocID(rawInput.ID), rawInputDoc{Kind: "rawinput", RawInput: *rawInput})
	if err != nil {
		return fmt.Errorf("failed to create raw input: %w", translateError(err))
	}

	return nil
}

func (r *rawInputRepository) FindByID(id string) (*domain.RawInput, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), rawInputDocID(id))

	var doc rawInputDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, translateError(err)
	}

	return &doc.RawInput, nil
}

func (r *rawInputRepository) list(selector map[string]interface{}) ([]*domain.RawInput, error) {
	db := r.client.DB(r.dbName)

	rows := db.Find(context.Background(), map[string]interface{}{"selector": selector})
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list raw inputs: %w", err)
	}
	defer rows.Close()

	var rawInputs []*domain.RawInput
	for rows.Next() {
		var doc rawInputDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		ri := doc.RawInput
		rawInputs = append(rawInputs, &ri)
	}

	// Newest first
	sort.Slice(rawInputs, func(i, j int) bool {
		return rawInputs[i].CreatedAt.After(rawInputs[j].CreatedAt)
	})

	return rawInputs, nil
}

func (r *rawInputRepository) ListByOwner(ownerID string) ([]*domain.RawInput, error) {
	return r.list(map[string]interface{}{
		"kind":  "rawinput",
		"owner": ownerID,
	})
}

func (r *rawInputRepository) ListByNotebook(notebookID string) ([]*domain.RawInput, error) {
	return r.list(map[string]interface{}{
		"kind":     "rawinput",
		"notebook": notebookID,
	})
}

func (r *rawInputRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := rawInputDocID(id)

	row := db.Get(context.Background(), docID)

	var doc rawInputDoc
	if err := row.ScanDoc(&doc); err != nil {
		return translateError(err)
	}

	if _, err := db.Delete(context.Background(), docID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete raw input: %w", translateError(err))
	}

	return nil
}

func (r *rawInputRepository) DeleteByNotebook(notebookID string) error {
	rawInputs, err := r.ListByNotebook(notebookID)
	if err != nil {
		return err
	}

	for _, ri := range rawInputs {
		if err := r.Delete(ri.ID); err != nil && err != ErrNotFound {
			return err
		}
	}

	return nil
}
