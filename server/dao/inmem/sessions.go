package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/weir/server/dao"
)

func NewSessionsRepository() *SessionsRepository {
	return &SessionsRepository{
		seshes: make(map[uuid.UUID]dao.Session),
	}
}

type SessionsRepository struct {
	seshes map[uuid.UUID]dao.Session
}

func (r *SessionsRepository) Close() error {
	return nil
}

func (r *SessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, err
	}
	s.ID = id
	s.Created = time.Now()
	s.Updated = s.Created

	r.seshes[s.ID] = s
	return s, nil
}

func (r *SessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, ok := r.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	return s, nil
}

func (r *SessionsRepository) GetAll(ctx context.Context) ([]dao.Session, error) {
	all := make([]dao.Session, 0, len(r.seshes))
	for _, s := range r.seshes {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})
	return all, nil
}

func (r *SessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	if _, ok := r.seshes[id]; !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	if s.ID != id {
		if _, exists := r.seshes[s.ID]; exists {
			return dao.Session{}, dao.ErrConstraintViolation
		}
		delete(r.seshes, id)
	}
	s.Updated = time.Now()
	r.seshes[s.ID] = s
	return s, nil
}

func (r *SessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, ok := r.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	delete(r.seshes, id)
	return s, nil
}
