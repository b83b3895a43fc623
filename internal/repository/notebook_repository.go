package repository

import (
	"context"
	"fmt"
	"sort"

	"notesmith-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NotebookRepository interface {
	Create(notebook *domain.Notebook) error
	FindByID(id string) (*domain.Notebook, error)
	ListByOwner(ownerID string) ([]*domain.Notebook, error)
	Update(notebook *domain.Notebook) error
	Delete(id string) error
	SetLatestRawInput(notebookID string, rawInputID *string) error
}

type notebookDoc struct {
	Rev  string `json:"_rev,omitempty"`
	Kind string `json:"kind"`
	domain.Notebook
}

type notebookRepository struct {
	client *kivik.Client
	dbName string
}

func NewNotebookRepository(client *kivik.Client, dbName string) NotebookRepository {
	return &notebookRepository{
		client: client,
		dbName: dbName,
	}
}

func notebookDocID(id string) string {
	return fmt.Sprintf("notebook:%s", id)
}

func (r *notebookRepository) Create(notebook *domain.Notebook) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), notebookDocID(notebook.ID), notebookDoc{Kind: "notebook", Notebook: *notebook})
	if err != nil {
		return fmt.Errorf("failed to create notebook: %w", translateError(err))
	}

	return nil
}

func (r *notebookRepository) FindByID(id string) (*domain.Notebook, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), notebookDocID(id))

	var doc notebookDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, translateError(err)
	}

	return &doc.Notebook, nil
}

func (r *notebookRepository) ListByOwner(ownerID string) ([]*domain.Notebook, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":  "notebook",
			"owner": ownerID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []*domain.Notebook
	for rows.Next() {
		var doc notebookDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		nb := doc.Notebook
		notebooks = append(notebooks, &nb)
	}

	// Newest first
	sort.Slice(notebooks, func(i, j int) bool {
		return notebooks[i].CreatedAt.After(notebooks[j].CreatedAt)
	})

	return notebooks, nil
}

func (r *notebookRepository) Update(notebook *domain.Notebook) error {
	db := r.client.DB(r.dbName)
	docID := notebookDocID(notebook.ID)

	row := db.Get(context.Background(), docID)

	var doc notebookDoc
	if err := row.ScanDoc(&doc); err != nil {
		return fmt.Errorf("failed to fetch notebook for update: %w", translateError(err))
	}

	doc.Notebook = *notebook
	doc.Kind = "notebook"

	if _, err := db.Put(context.Background(), docID, doc); err != nil {
		return fmt.Errorf("failed to update notebook: %w", translateError(err))
	}

	return nil
}

func (r *notebookRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := notebookDocID(id)

	row := db.Get(context.Background(), docID)

	var doc notebookDoc
	if err := row.ScanDoc(&doc); err != nil {
		return translateError(err)
	}

	if _, err := db.Delete(context.Background(), docID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete notebook: %w", translateError(err))
	}

	return nil
}

func (r *notebookRepository) SetLatestRawInput(notebookID string, rawInputID *string) error {
	db := r.client.DB(r.dbName)
	docID := notebookDocID(notebookID)

	row := db.Get(context.Background(), docID)

	var doc notebookDoc
	if err := row.ScanDoc(&doc); err != nil {
		return fmt.Errorf("failed to fetch notebook: %w", translateError(err))
	}

	doc.LatestRawInput = rawInputID
	doc.Kind = "notebook"

	if _, err := db.Put(context.Background(), docID, doc); err != nil {
		return fmt.Errorf("failed to update latest raw input: %w", translateError(err))
	}

	return nil
}
