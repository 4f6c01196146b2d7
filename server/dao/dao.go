// Package dao provides data access objects for the weir server: persisted
// named grammars and resumable parsing sessions.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Store holds all the repositories backing the server.
type Store interface {
	Grammars() GrammarRepository
	Sessions() SessionRepository
	Close() error
}

// Grammar is a named, persisted grammar file (§6 static grammar schema).
// Source is the raw TOML bytes gramfile.ParseWithLexer was built from, kept
// so the grammar can be rebuilt in a fresh process after a restart.
type Grammar struct {
	ID      uuid.UUID
	Name    string
	Source  []byte
	Created time.Time
}

type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// LexedToken mirrors engine.LexedToken as a persistence-layer record so this
// package does not need to import internal/weir/engine.
type LexedToken struct {
	Type    string
	Content string
	Line    int
	Column  int
}

// Session is a checkpointed parsing session. Rather than serialize the
// engine's candidate/tree graph directly (which holds pointers internal to
// one process's heap), a checkpoint keeps the ordered token log fed to the
// session so far; resuming replays that log through a freshly started
// engine session, which is deterministic and reaches the identical
// candidate set the original session held.
type Session struct {
	ID          uuid.UUID
	GrammarID   uuid.UUID
	GrammarName string
	Tokens      []LexedToken
	Finished    bool
	Created     time.Time
	Updated     time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}
