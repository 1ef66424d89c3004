// Package redis stores confirmation sessions in Redis so any server instance
// can serve any signal for a session.
package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/pkg/domain"
	"pkgconfirm/pkg/platform/sentinel"
)

const (
	keyPrefix  = "pkgconfirm:session:"
	maxRetries = 5
)

// Store keeps each session as a JSON value whose Redis expiry matches the
// session's ExpiresAt.
type Store struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func key(id domain.SessionID) string {
	return keyPrefix + id.String()
}

func (s *Store) Create(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	args := redis.SetArgs{Mode: "NX"}
	if !session.ExpiresAt.IsZero() {
		args.ExpireAt = session.ExpiresAt
	}
	err = s.client.SetArgs(ctx, key(session.ID), data, args).Err()
	if errors.Is(err, redis.Nil) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*models.Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decode(data)
}

// Update runs fn inside WATCH/MULTI. fn may run more than once when another
// writer touches the session concurrently, so it must not have side effects
// beyond the session it is given.
func (s *Store) Update(ctx context.Context, id domain.SessionID, fn func(*models.Session) error) (*models.Session, error) {
	k := key(id)
	var result *models.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		session, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}
		updated, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		// Repeated acknowledgements and cancels change nothing; writing them
		// would only abort other writers' transactions.
		if bytes.Equal(updated, data) {
			result = session
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, updated, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = session
		return nil
	}

	for range maxRetries {
		err := s.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("update session %s: %w", id, sentinel.ErrConflict)
}

func decode(data []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}
