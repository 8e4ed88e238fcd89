package bolt

import (
	"github.com/boltdb/bolt"
)

var (
	stateBucket = []byte("state")
	stateKey    = []byte("blob")
)

// StateRepository stores the whole persisted blob as one value under a
// fixed key. Every save writes a fully-formed replacement inside one
// transaction, so a failed write leaves the previous blob intact.
type StateRepository struct {
	Driver *Driver
}

func (r *StateRepository) Load() ([]byte, error) {
	var data []byte
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(stateBucket)

		value := bucket.Get(stateKey)
		if value == nil {
			return nil
		}

		// The slice is only valid inside the transaction.
		data = make([]byte, len(value))
		copy(data, value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (r *StateRepository) Save(data []byte) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(stateKey, data)
	})
}
