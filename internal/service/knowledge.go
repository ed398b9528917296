package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/eduassist/internal/domain"
)

type KnowledgeService struct {
	repo    KnowledgeRepository
	timeout time.Duration
}

func NewKnowledgeService(repo KnowledgeRepository, timeout time.Duration) *KnowledgeService {
	return &KnowledgeService{repo: repo, timeout: timeout}
}

// Lookup returns the answer of the best matching entry. A miss is ("", false, nil).
// A storage failure is also reported as not found, with the cause logged and returned
// so callers can tell the two apart.
func (s *KnowledgeService) Lookup(ctx context.Context, query string) (string, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false, nil
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	match, err := s.repo.SearchKnowledge(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("knowledge base miss", "query", query)
			return "", false, nil
		}
		err = storageErr("search knowledge base", err)
		slog.Error("knowledge base lookup failed",
			"component", "knowledge_base",
			"op", "lookup",
			"error", err,
		)
		return "", false, err
	}

	slog.Debug("knowledge base hit", "query", query, "entry_id", match.Entry.ID, "score", match.Score)
	return match.Entry.Answer, true, nil
}

// ImportEntries inserts entries with a non-empty question and answer and returns how many were stored.
func (s *KnowledgeService) ImportEntries(ctx context.Context, entries []domain.KnowledgeEntry) (int, error) {
	stored := 0
	for _, e := range entries {
		e.Question = strings.TrimSpace(e.Question)
		e.Answer = strings.TrimSpace(e.Answer)
		if e.Question == "" || e.Answer == "" {
			continue
		}
		ictx, cancel := withStoreTimeout(ctx, s.timeout)
		_, err := s.repo.InsertKnowledge(ictx, e)
		cancel()
		if err != nil {
			return stored, storageErr(fmt.Sprintf("insert knowledge entry %q", e.Question), err)
		}
		stored++
	}
	return stored, nil
}
