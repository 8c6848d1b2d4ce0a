package boltdb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var (
	shareCodeBucket = []byte("ShareCodes")
	codeIndexBucket = []byte("ShareCodeIndex") // code -> correction id
	auditBucket     = []byte("AuditEvents")
)

type DB struct {
	db *bbolt.DB
}

// Open opens (or creates) the bolt file at `path` and its buckets.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating bolt directory")
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{shareCodeBucket, codeIndexBucket, auditBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	return &DB{db: db}, nil
}

func (db *DB) Close() error { return db.db.Close() }
