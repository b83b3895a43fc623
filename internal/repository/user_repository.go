package repository

import (
	"context"
	"fmt"
	"time"

	"notesmith-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	FindByID(id string) (*domain.User, error)
	Update(user *domain.User) error
	EmailExists(email string) (bool, error)
	ConsumeLLMQuota(userID string, limit int, now time.Time) (*domain.QuotaStatus, error)
}

type userDoc struct {
	Rev  string `json:"_rev,omitempty"`
	Kind string `json:"kind"`
	domain.User
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

func userDocID(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (r *userRepository) Create(user *domain.User) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), userDocID(user.ID), userDoc{Kind: "user", User: *user})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}

	return nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":  "user",
			"email": email,
		},
		"limit": 1,
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}

	var doc userDoc
	if err := rows.ScanDoc(&doc); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &doc.User, nil
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), userDocID(id))

	var doc userDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, translateError(err)
	}

	return &doc.User, nil
}

func (r *userRepository) Update(user *domain.User) error {
	db := r.client.DB(r.dbName)
	docID := userDocID(user.ID)

	row := db.Get(context.Background(), docID)

	var doc userDoc
	if err := row.ScanDoc(&doc); err != nil {
		return fmt.Errorf("failed to fetch user for update: %w", translateError(err))
	}

	doc.User = *user
	doc.Kind = "user"

	if _, err := db.Put(context.Background(), docID, doc); err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}

	return nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	_, err := r.FindByEmail(email)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// quotaConflictRetries bounds the compare-and-swap loop in ConsumeLLMQuota.
const quotaConflictRetries = 3

// ConsumeLLMQuota atomically applies the daily counter logic to the user
// document: reset the counter if the last reset predates the start of today,
// reject at the ceiling, otherwise increment. The revision-checked Put makes
// this a compare-and-swap; losing a concurrent race retries on the fresh
// revision, so the ceiling holds even for simultaneous requests.
func (r *userRepository) ConsumeLLMQuota(userID string, limit int, now time.Time) (*domain.QuotaStatus, error) {
	db := r.client.DB(r.dbName)
	docID := userDocID(userID)

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var lastErr error
	for attempt := 0; attempt <= quotaConflictRetries; attempt++ {
		row := db.Get(context.Background(), docID)

		var doc userDoc
		if err := row.ScanDoc(&doc); err != nil {
			return nil, translateError(err)
		}

		if doc.LLMRequestLastReset.Before(midnight) {
			doc.LLMRequestCount = 0
			doc.LLMRequestLastReset = midnight
		}

		status := &domain.QuotaStatus{
			Count:     doc.LLMRequestCount,
			Limit:     limit,
			LastReset: doc.LLMRequestLastReset,
			NextReset: doc.LLMRequestLastReset.AddDate(0, 0, 1),
		}

		if doc.LLMRequestCount >= limit {
			status.Exceeded = true
			return status, nil
		}

		doc.LLMRequestCount++
		status.Count = doc.LLMRequestCount

		_, err := db.Put(context.Background(), docID, doc)
		if err == nil {
			return status, nil
		}
		if translateError(err) != ErrConflict {
			return nil, fmt.Errorf("failed to persist quota update: %w", err)
		}
		lastErr = ErrConflict
	}

	return nil, fmt.Errorf("failed to consume quota after %d retries: %w", quotaConflictRetries, lastErr)
}
