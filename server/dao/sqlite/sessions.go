package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/weir/server/dao"
)

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		grammar_id TEXT NOT NULL,
		grammar_name TEXT NOT NULL,
		tokens BLOB NOT NULL,
		finished INTEGER NOT NULL,
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

// encTokens marshals the fed token log to JSON. A resumed session replays
// this log through a fresh engine session rather than deserializing the
// candidate/tree graph directly (see dao.Session).
func encTokens(toks []dao.LexedToken) ([]byte, error) {
	if toks == nil {
		toks = []dao.LexedToken{}
	}
	return json.Marshal(toks)
}

func decTokens(data []byte) ([]dao.LexedToken, error) {
	var toks []dao.LexedToken
	if err := json.Unmarshal(data, &toks); err != nil {
		return nil, fmt.Errorf("%w: %s", dao.ErrNotFound, err.Error())
	}
	return toks, nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, err
	}
	now := time.Now()

	encoded, err := encTokens(s.Tokens)
	if err != nil {
		return dao.Session{}, err
	}

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO sessions (id, grammar_id, grammar_name, tokens, finished, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newUUID.String(), s.GrammarID.String(), s.GrammarName, encoded, boolToInt(s.Finished), now.Unix(), now.Unix(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) scanRow(row *sql.Row) (dao.Session, error) {
	var s dao.Session
	var id, grammarID string
	var tokens []byte
	var finished int
	var created, updated int64

	err := row.Scan(&id, &grammarID, &s.GrammarName, &tokens, &finished, &created, &updated)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	s.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Session{}, err
	}
	s.GrammarID, err = uuid.Parse(grammarID)
	if err != nil {
		return dao.Session{}, err
	}
	s.Tokens, err = decTokens(tokens)
	if err != nil {
		return dao.Session{}, err
	}
	s.Finished = finished != 0
	s.Created = time.Unix(created, 0)
	s.Updated = time.Unix(updated, 0)

	return s, nil
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, grammar_id, grammar_name, tokens, finished, created, updated FROM sessions WHERE id = ?;`,
		id.String(),
	)
	return repo.scanRow(row)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, grammar_id, grammar_name, tokens, finished, created, updated FROM sessions ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session
	for rows.Next() {
		var s dao.Session
		var id, grammarID string
		var tokens []byte
		var finished int
		var created, updated int64

		if err := rows.Scan(&id, &grammarID, &s.GrammarName, &tokens, &finished, &created, &updated); err != nil {
			return nil, wrapDBError(err)
		}
		s.ID, err = uuid.Parse(id)
		if err != nil {
			return all, err
		}
		s.GrammarID, err = uuid.Parse(grammarID)
		if err != nil {
			return all, err
		}
		s.Tokens, err = decTokens(tokens)
		if err != nil {
			return all, err
		}
		s.Finished = finished != 0
		s.Created = time.Unix(created, 0)
		s.Updated = time.Unix(updated, 0)

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	encoded, err := encTokens(s.Tokens)
	if err != nil {
		return dao.Session{}, err
	}
	now := time.Now()

	res, err := repo.db.ExecContext(ctx,
		`UPDATE sessions SET grammar_id=?, grammar_name=?, tokens=?, finished=?, updated=? WHERE id=?;`,
		s.GrammarID.String(), s.GrammarName, encoded, boolToInt(s.Finished), now.Unix(), id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?;`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
