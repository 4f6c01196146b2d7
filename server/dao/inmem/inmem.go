// Package inmem provides an in-memory dao.Store for the weir server, for
// tests and for running without a data directory.
package inmem

import (
	"fmt"

	"github.com/dekarrin/weir/server/dao"
)

func NewDatastore() *Datastore {
	return &Datastore{
		grammars: NewGrammarsRepository(),
		sessions: NewSessionsRepository(),
	}
}

type Datastore struct {
	grammars *GrammarsRepository
	sessions *SessionsRepository
}

func (ds *Datastore) Grammars() dao.GrammarRepository {
	return ds.grammars
}

func (ds *Datastore) Sessions() dao.SessionRepository {
	return ds.sessions
}

func (ds *Datastore) Close() error {
	var errs []error
	if err := ds.grammars.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := ds.sessions.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing datastore: %v", errs)
	}
	return nil
}
