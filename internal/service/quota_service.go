package service

import (
	"fmt"
	"time"

	"notesmith-server/internal/repository"
)

// QuotaService gates LLM-backed operations behind a per-user daily counter.
// The counting itself is a storage-layer compare-and-swap, so simultaneous
// requests cannot race past the ceiling.
type QuotaService struct {
	userRepo   repository.UserRepository
	dailyLimit int
}

func NewQuotaService(userRepo repository.UserRepository, dailyLimit int) *QuotaService {
	return &QuotaService{
		userRepo:   userRepo,
		dailyLimit: dailyLimit,
	}
}

// Consume takes one unit of today's quota. It returns a *LimitExceededError
// when the ceiling is already reached.
func (s *QuotaService) Consume(userID string) error {
	status, err := s.userRepo.ConsumeLLMQuota(userID, s.dailyLimit, time.Now())
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check rate limit: %w", err)
	}

	if status.Exceeded {
		return &LimitExceededError{NextReset: status.NextReset}
	}

	return nil
}

func (s *QuotaService) DailyLimit() int {
	return s.dailyLimit
}
