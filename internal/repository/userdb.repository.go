package repository

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// the user's durable state lives in a single local bbolt file, playing the
// role browser localStorage plays for the web client
const (
	userBucket   = "user"
	holdingsKey  = "portfolio"
	favoritesKey = "favorites"
)

func NewUserDb(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open user db at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(userBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user bucket: %w", err)
	}
	return db, nil
}

func loadRecord(db *bolt.DB, key string) ([]byte, error) {
	var value []byte
	err := db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(userBucket))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func saveRecord(db *bolt.DB, key string, value []byte) error {
	err := db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(userBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
