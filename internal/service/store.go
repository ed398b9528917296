package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/set-night/eduassist/internal/domain"
)

// storageErr tags anything that is not a domain outcome as a storage failure.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConversationNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrInvalidFeedback):
		return err
	}
	return errors.Join(domain.ErrStorageUnavailable, fmt.Errorf("%s: %w", op, err))
}

// withStoreTimeout bounds a store call. A non-positive timeout leaves ctx unbounded.
func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
