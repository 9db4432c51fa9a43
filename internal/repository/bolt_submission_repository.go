package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/folio/backend/internal/model"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// BoltSubmissionRepository stores submissions as JSON values in a bbolt
// bucket keyed by id. It needs no external service.
type BoltSubmissionRepository struct {
	db *bolt.DB
}

// OpenBoltSubmissionRepository opens (or creates) the bbolt file at path.
func OpenBoltSubmissionRepository(path string) (*BoltSubmissionRepository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(SubmissionTable))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltSubmissionRepository{db: db}, nil
}

var _ SubmissionRepository = (*BoltSubmissionRepository)(nil)

func (r *BoltSubmissionRepository) Insert(_ context.Context, sub *model.Submission) error {
	row := *sub
	row.ID = uuid.NewString()
	b, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SubmissionTable)).Put([]byte(row.ID), b)
	}); err != nil {
		return err
	}
	sub.ID = row.ID
	return nil
}

func (r *BoltSubmissionRepository) FindByID(_ context.Context, id string) (*model.Submission, error) {
	var b []byte
	if err := r.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(SubmissionTable)).Get([]byte(id)); v != nil {
			// v is only valid inside the transaction.
			b = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	var s model.Submission
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return &s, nil
}

func (r *BoltSubmissionRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(SubmissionTable))
		if bucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *BoltSubmissionRepository) Ping(context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(SubmissionTable)) == nil {
			return fmt.Errorf("bucket %s missing", SubmissionTable)
		}
		return nil
	})
}

func (r *BoltSubmissionRepository) Close() error {
	return r.db.Close()
}
