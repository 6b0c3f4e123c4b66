// Package db stores schema/reference documents in badger. The docs
// are loaded from a directory at startup and injected into the SQL
// generation prompt.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

const refDocPrefix = "ref_doc:"

type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func (d *DB) StoreReferenceDoc(name string, content string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		key := []byte(refDocPrefix + name)
		return txn.Set(key, []byte(content))
	})
}

func (d *DB) DeleteReferenceDoc(name string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(refDocPrefix + name))
	})
}

func (d *DB) GetReferenceDocs() ([]models.ReferenceDoc, error) {
	var docs []models.ReferenceDoc

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(refDocPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), refDocPrefix)

			err := item.Value(func(val []byte) error {
				docs = append(docs, models.ReferenceDoc{
					Name:    name,
					Content: string(val),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return docs, err
}

// LoadReferenceDocsFromDir reads .sql and .md files from the directory
// (created if missing) without storing them; callers decide what to
// persist.
func (d *DB) LoadReferenceDocsFromDir(dir string) ([]models.ReferenceDoc, error) {
	var docs []models.ReferenceDoc

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reference directory: %w", err)
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isReferenceFile(info.Name()) {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			docs = append(docs, models.ReferenceDoc{
				Name:    info.Name(),
				Content: string(content),
			})
		}
		return nil
	})

	return docs, err
}

func isReferenceFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".sql") || strings.HasSuffix(lower, ".md")
}
