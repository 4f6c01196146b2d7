package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/weir/server/dao"
)

func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{
		byID:   make(map[uuid.UUID]dao.Grammar),
		byName: make(map[string]uuid.UUID),
	}
}

type GrammarsRepository struct {
	byID   map[uuid.UUID]dao.Grammar
	byName map[string]uuid.UUID
}

func (r *GrammarsRepository) Close() error {
	return nil
}

func (r *GrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	if _, exists := r.byName[g.Name]; exists {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, err
	}
	g.ID = id
	g.Created = time.Now()

	r.byID[g.ID] = g
	r.byName[g.Name] = g.ID

	return g, nil
}

func (r *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	return g, nil
}

func (r *GrammarsRepository) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	id, ok := r.byName[name]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *GrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	all := make([]dao.Grammar, 0, len(r.byID))
	for _, g := range r.byID {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}

func (r *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byName, g.Name)
	return g, nil
}
