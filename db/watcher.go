package db

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchReferenceDir keeps the stored reference docs in sync with the
// directory: created or modified .sql/.md files are (re)loaded,
// removed files are dropped. Blocks until ctx is cancelled.
func (d *DB) WatchReferenceDir(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Printf("[DB] Watching reference directory: %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !isReferenceFile(name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				docs, err := d.LoadReferenceDocsFromDir(dir)
				if err != nil {
					log.Printf("[DB] Failed to reload reference docs: %v", err)
					continue
				}
				for _, doc := range docs {
					if doc.Name != name {
						continue
					}
					if err := d.StoreReferenceDoc(doc.Name, doc.Content); err != nil {
						log.Printf("[DB] Failed to store reference doc %s: %v", doc.Name, err)
					} else {
						log.Printf("[DB] Reloaded reference doc: %s", doc.Name)
					}
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				if err := d.DeleteReferenceDoc(name); err != nil {
					log.Printf("[DB] Failed to delete reference doc %s: %v", name, err)
				} else {
					log.Printf("[DB] Removed reference doc: %s", name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[DB] Watcher error: %v", err)
		}
	}
}
