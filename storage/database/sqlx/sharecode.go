package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/sharecode"
)

type shareCodeRepository struct {
	db *sqlx.DB
}

var _ sharecode.Issuer = (*shareCodeRepository)(nil) // interface compliance check

func NewShareCodeRepository(db *sqlx.DB) sharecode.Issuer {
	return &shareCodeRepository{db: db}
}

// CreateIfMissing inserts one code per id in a single statement; existing rows are left untouched.
// A (rare) code collision skips the row, the id then resolves to its fallback.
func (repo *shareCodeRepository) CreateIfMissing(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	codes := make([]string, len(ids))
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
		codes[i] = sharecode.NewCode()
	}

	const q = `
		INSERT INTO share_code (correction_id, code)
		SELECT * FROM unnest($1::BIGINT[], $2::VARCHAR[])
		ON CONFLICT DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, q, pq.Array(keys), pq.Array(codes)); err != nil {
		return errors.Wrap(err, "inserting share codes")
	}
	return nil
}

func (repo *shareCodeRepository) Fetch(ctx context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	var rows []struct {
		ID   int64  `db:"correction_id"`
		Code string `db:"code"`
	}
	const q = `SELECT correction_id, code FROM share_code WHERE correction_id = ANY($1)`
	if err := repo.db.SelectContext(ctx, &rows, q, pq.Array(keys)); err != nil {
		return nil, errors.Wrap(err, "selecting share codes")
	}
	for _, r := range rows {
		out[int(r.ID)] = r.Code
	}
	return out, nil
}
