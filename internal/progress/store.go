// Package progress owns every read and write of persisted learner state.
// Reads are permissive: a missing or corrupt value decodes to an empty
// default, never an error. Callers mutate via read-modify-write of the
// whole state record.
package progress

import (
	"context"
	"encoding/json"

	"github.com/microlearn/courseplayer/internal/kv"
)

// StateKey composes the storage slot for a learner/module pair. Distinct
// identities map to distinct slots, so switching identity changes which
// state is visible without erasing anything.
func StateKey(identityID, moduleID string) string {
	return "progress:" + identityID + ":" + moduleID
}

// IdentityKey composes the storage slot for an identity record.
func IdentityKey(identityID string) string {
	return "identity:" + identityID
}

type Store struct {
	kv kv.Store
}

func NewStore(backend kv.Store) *Store { return &Store{kv: backend} }

// SetIdentity derives the slug for name, persists the identity record and
// returns it.
func (s *Store) SetIdentity(ctx context.Context, name string) (Identity, error) {
	ident := Identity{Name: name, ID: DeriveID(name)}
	buf, err := json.Marshal(ident)
	if err != nil {
		return Identity{}, err
	}
	if err := s.kv.Set(ctx, IdentityKey(ident.ID), string(buf)); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// Identity reads a persisted identity record. A record carrying a name
// but no cached id gets the id recomputed and written back. Missing or
// corrupt storage yields an empty identity, not an error.
func (s *Store) Identity(ctx context.Context, identityID string) Identity {
	raw, err := s.kv.Get(ctx, IdentityKey(identityID))
	if err != nil {
		return Identity{}
	}
	var ident Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return Identity{}
	}
	if ident.Name != "" && ident.ID == "" {
		ident.ID = DeriveID(ident.Name)
		if buf, err := json.Marshal(ident); err == nil {
			_ = s.kv.Set(ctx, IdentityKey(identityID), string(buf))
		}
	}
	return ident
}

// State reads the learner's state for a module. Missing keys and decode
// failures both yield the empty state.
func (s *Store) State(ctx context.Context, identityID, moduleID string) UserState {
	raw, err := s.kv.Get(ctx, StateKey(identityID, moduleID))
	if err != nil {
		return UserState{}
	}
	var st UserState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return UserState{}
	}
	return st
}

// SetState overwrites the learner's state for a module with st.
func (s *Store) SetState(ctx context.Context, identityID, moduleID string, st UserState) error {
	buf, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StateKey(identityID, moduleID), string(buf))
}

// Update runs fn inside a read-modify-write of the full state record.
func (s *Store) Update(ctx context.Context, identityID, moduleID string, fn func(*UserState)) (UserState, error) {
	st := s.State(ctx, identityID, moduleID)
	fn(&st)
	if err := s.SetState(ctx, identityID, moduleID, st); err != nil {
		return UserState{}, err
	}
	return st, nil
}
