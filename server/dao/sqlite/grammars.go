package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/weir/server/dao"
)

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source BLOB NOT NULL,
		created INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, err
	}
	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, name, source, created) VALUES (?, ?, ?, ?)`,
		newUUID.String(), g.Name, g.Source, now.Unix(),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) scanRow(row *sql.Row) (dao.Grammar, error) {
	var g dao.Grammar
	var id string
	var created int64

	err := row.Scan(&id, &g.Name, &g.Source, &created)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, err
	}
	g.Created = time.Unix(created, 0)

	return g, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, created FROM grammars WHERE id = ?;`, id.String())
	return repo.scanRow(row)
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, created FROM grammars WHERE name = ?;`, name)
	return repo.scanRow(row)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, source, created FROM grammars ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		var g dao.Grammar
		var id string
		var created int64

		if err := rows.Scan(&id, &g.Name, &g.Source, &created); err != nil {
			return nil, wrapDBError(err)
		}
		g.ID, err = uuid.Parse(id)
		if err != nil {
			return all, err
		}
		g.Created = time.Unix(created, 0)
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?;`, id.String())
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

func (repo *GrammarsDB) Close() error {
	return nil
}
