// Package svc is the programmatic entry point into the weir server's
// behavior, independent of HTTP, the same separation the teacher draws
// between tunas.Service and server/api.
package svc

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dekarrin/weir"
	"github.com/dekarrin/weir/internal/weir/gramfile"
	"github.com/dekarrin/weir/server/dao"
)

type Service interface {
	LoadGrammar(ctx context.Context, name string, source []byte) (dao.Grammar, error)
	StartSession(ctx context.Context, grammarName string) (dao.Session, error)
	FeedToken(ctx context.Context, sessionID uuid.UUID, tok weir.Token) (dao.Session, error)
	FinishSession(ctx context.Context, sessionID uuid.UUID) ([]*weir.Tree, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (dao.Session, error)
}

// liveSession is the in-memory engine state for one in-flight session. It is
// not itself persisted; dao.Session's Tokens log is the durable record, and
// a liveSession is rebuilt from that log on first use after a restart.
type liveSession struct {
	parser  *weir.Parser
	session *weir.Session
}

func New(store dao.Store) Service {
	return &service{store: store, live: make(map[uuid.UUID]*liveSession)}
}

type service struct {
	store dao.Store

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession
}

func (s *service) LoadGrammar(ctx context.Context, name string, source []byte) (dao.Grammar, error) {
	if _, err := gramfile.Parse(source); err != nil {
		return dao.Grammar{}, fmt.Errorf("invalid grammar: %w", err)
	}

	return s.store.Grammars().Create(ctx, dao.Grammar{Name: name, Source: source})
}

func (s *service) StartSession(ctx context.Context, grammarName string) (dao.Session, error) {
	g, err := s.store.Grammars().GetByName(ctx, grammarName)
	if err != nil {
		return dao.Session{}, err
	}

	gram, err := gramfile.Parse(g.Source)
	if err != nil {
		return dao.Session{}, fmt.Errorf("stored grammar %s is invalid: %w", g.Name, err)
	}

	sesh, err := s.store.Sessions().Create(ctx, dao.Session{GrammarID: g.ID, GrammarName: g.Name})
	if err != nil {
		return dao.Session{}, err
	}

	parser := weir.New(gram)

	s.mu.Lock()
	s.live[sesh.ID] = &liveSession{parser: parser, session: parser.Start()}
	s.mu.Unlock()

	return sesh, nil
}

func (s *service) getLive(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		return ls, nil
	}

	// not resident (fresh process, or evicted): rebuild from the
	// persisted token log.
	sesh, err := s.store.Sessions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := s.store.Grammars().GetByID(ctx, sesh.GrammarID)
	if err != nil {
		return nil, err
	}

	gram, err := gramfile.Parse(g.Source)
	if err != nil {
		return nil, fmt.Errorf("stored grammar %s is invalid: %w", g.Name, err)
	}
	parser := weir.New(gram)
	live := &liveSession{parser: parser, session: parser.Start()}

	for _, t := range sesh.Tokens {
		if err := live.session.Feed(weir.Token{Type: t.Type, Content: t.Content, Line: t.Line, Column: t.Column}); err != nil {
			return nil, fmt.Errorf("replaying checkpointed token log: %w", err)
		}
	}

	s.mu.Lock()
	s.live[id] = live
	s.mu.Unlock()

	return live, nil
}

func (s *service) FeedToken(ctx context.Context, sessionID uuid.UUID, tok weir.Token) (dao.Session, error) {
	live, err := s.getLive(ctx, sessionID)
	if err != nil {
		return dao.Session{}, err
	}

	if err := live.session.Feed(tok); err != nil {
		// weir.Session.Feed's contract is that the session must be
		// discarded once it errors; evict it so the next FeedToken call
		// rebuilds a fresh one from the persisted (still-valid) token log
		// instead of reusing one whose state is now out of step.
		s.mu.Lock()
		delete(s.live, sessionID)
		s.mu.Unlock()
		return dao.Session{}, err
	}

	sesh, err := s.store.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		return dao.Session{}, err
	}
	sesh.Tokens = append(sesh.Tokens, dao.LexedToken{Type: tok.Type, Content: tok.Content, Line: tok.Line, Column: tok.Column})

	return s.store.Sessions().Update(ctx, sessionID, sesh)
}

func (s *service) FinishSession(ctx context.Context, sessionID uuid.UUID) ([]*weir.Tree, error) {
	live, err := s.getLive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	trees, err := live.session.Finish()
	if err != nil {
		return nil, err
	}

	sesh, err := s.store.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sesh.Finished = true
	if _, err := s.store.Sessions().Update(ctx, sessionID, sesh); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()

	return trees, nil
}

func (s *service) GetSession(ctx context.Context, sessionID uuid.UUID) (dao.Session, error) {
	return s.store.Sessions().GetByID(ctx, sessionID)
}
