package services

import (
	"context"

	"photo-gallery-backend/internal/storage"
)

// stagedRename moves a stored object to a new key ahead of a database
// write and can compensate if that write fails. The storage move and
// the row update are two independent systems with no shared
// transaction, so the reverse move is a manual compensating action.
type stagedRename struct {
	store  storage.Store
	oldKey string
	newKey string
	moved  bool
}

// apply performs the move. Equal keys are a no-op.
func (s *stagedRename) apply(ctx context.Context) error {
	if s.oldKey == s.newKey {
		return nil
	}
	if err := s.store.Move(ctx, s.oldKey, s.newKey); err != nil {
		return err
	}
	s.moved = true
	return nil
}

// revert moves the object back to its original key if apply moved it.
// If the object is no longer at the new key there is nothing to undo.
func (s *stagedRename) revert(ctx context.Context) error {
	if !s.moved {
		return nil
	}
	exists, err := s.store.Exists(ctx, s.newKey)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.store.Move(ctx, s.newKey, s.oldKey); err != nil {
		return err
	}
	s.moved = false
	return nil
}
