package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

// Sync brings the index up to date with the library:
//   - new/changed documents are upserted
//   - documents removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Filename] = struct{}{}

		data, err := store.Read(m.Filename)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("file", m.Filename), slog.String("error", err.Error()))
			continue
		}
		if checksums[m.Filename] == Checksum(data) {
			continue
		}
		if err := indexFile(db, m.Filename, data); err != nil {
			logger.Warn("sync: index failed", slog.String("file", m.Filename), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("file", m.Filename))
		}
	}

	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.DeletePage(name); err != nil {
				logger.Warn("sync: delete failed", slog.String("file", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("file", name))
			}
		}
	}

	return nil
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// indexFile derives page metadata from data and upserts it.
func indexFile(db *DB, filename string, data []byte) error {
	row := PageRow{
		Filename:  filename,
		Title:     parser.TitleFromContent(data),
		Datetime:  parser.Timestamp(filename),
		Checksum:  Checksum(data),
		UpdatedAt: time.Now().UTC(),
	}
	return db.UpsertPage(row, string(data))
}
