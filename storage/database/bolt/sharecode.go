package boltdb

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/udriss/correction/core/sharecode"
)

const maxCodeAttempts = 5

type shareCodeRepository struct {
	db *bbolt.DB
}

var _ sharecode.Issuer = (*shareCodeRepository)(nil) // interface compliance check

func NewShareCodeRepository(db *DB) sharecode.Issuer {
	return &shareCodeRepository{db: db.db}
}

func key(id int) []byte { return []byte(strconv.Itoa(id)) }

// CreateIfMissing issues every missing code in one transaction.
func (repo *shareCodeRepository) CreateIfMissing(ctx context.Context, ids []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := repo.db.Update(func(tx *bbolt.Tx) error {
		codes := tx.Bucket(shareCodeBucket)
		index := tx.Bucket(codeIndexBucket)
		for _, id := range ids {
			if codes.Get(key(id)) != nil {
				continue
			}
			code, err := uniqueCode(index)
			if err != nil {
				return errors.Wrapf(err, "correction %d", id)
			}
			if err = codes.Put(key(id), []byte(code)); err != nil {
				return err
			}
			if err = index.Put([]byte(code), key(id)); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "creating share codes")
}

func uniqueCode(index *bbolt.Bucket) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := sharecode.NewCode()
		if index.Get([]byte(code)) == nil {
			return code, nil
		}
	}
	return "", errors.New("could not issue a unique code")
}

func (repo *shareCodeRepository) Fetch(ctx context.Context, ids []int) (map[int]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(ids))
	err := repo.db.View(func(tx *bbolt.Tx) error {
		codes := tx.Bucket(shareCodeBucket)
		for _, id := range ids {
			if v := codes.Get(key(id)); v != nil {
				out[id] = string(v) // copy: v is only valid during the tx
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetching share codes")
	}
	return out, nil
}
