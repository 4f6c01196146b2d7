// Package sqlite provides a dao.Store backed by modernc.org/sqlite, the
// pure-Go SQLite driver the teacher itself already prefers over a cgo
// binding. Grammars and sessions are kept in separate database files, the
// same two-files-per-store layout the teacher's server/dao/sqlite uses for
// its own world-data/account split.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"modernc.org/sqlite"

	"github.com/dekarrin/weir/server/dao"
)

type store struct {
	grammarsDBFilename string
	sessionsDBFilename string

	grammarsDB *sql.DB
	sessionsDB *sql.DB

	grammars *GrammarsDB
	sessions *SessionsDB
}

// NewDatastore opens (creating if needed) two SQLite files under storageDir:
// grammars.db and sessions.db.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		grammarsDBFilename: "grammars.db",
		sessionsDBFilename: "sessions.db",
	}

	grammarsFile := filepath.Join(storageDir, st.grammarsDBFilename)
	sessionsFile := filepath.Join(storageDir, st.sessionsDBFilename)

	var err error
	st.grammarsDB, err = sql.Open("sqlite", grammarsFile)
	if err != nil {
		return nil, wrapDBError(err)
	}
	st.sessionsDB, err = sql.Open("sqlite", sessionsFile)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.grammarsDB}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	st.sessions = &SessionsDB{db: st.sessionsDB}
	if err := st.sessions.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sessions
}

func (s *store) Close() error {
	grammarsErr := s.grammarsDB.Close()
	sessionsErr := s.sessionsDB.Close()

	var err error
	if grammarsErr != nil {
		err = fmt.Errorf("%s: %w", s.grammarsDBFilename, grammarsErr)
	}
	if sessionsErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally: %s: %w", err.Error(), s.sessionsDBFilename, sessionsErr)
		} else {
			err = fmt.Errorf("%s: %w", s.sessionsDBFilename, sessionsErr)
		}
	}
	return err
}

// wrapDBError maps a raw database/sql or modernc.org/sqlite error to one of
// this package's dao sentinel errors where one applies.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
