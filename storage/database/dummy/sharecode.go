package dummydb

import (
	"context"

	"github.com/udriss/correction/core/sharecode"
)

type shareCodeRepository struct {
	db *shareCodeTable
}

var _ sharecode.Issuer = (*shareCodeRepository)(nil) // interface compliance check

func NewShareCodeRepository(db *DB) sharecode.Issuer {
	return &shareCodeRepository{db: db.shareCode}
}

func (repo *shareCodeRepository) CreateIfMissing(ctx context.Context, ids []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.table[id]; !ok {
			repo.db.table[id] = sharecode.NewCode()
		}
	}
	return nil
}

func (repo *shareCodeRepository) Fetch(ctx context.Context, ids []int) (map[int]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	out := make(map[int]string, len(ids))
	for _, id := range ids {
		if code, ok := repo.db.table[id]; ok {
			out[id] = code
		}
	}
	return out, nil
}
