package audit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/library-api/internal/entities"
)

// Archiver writes batches of expired audit events to JSON files so that
// cleanup does not lose them.
type Archiver struct {
	Dir string
}

func NewArchiver(dir string) *Archiver {
	return &Archiver{Dir: dir}
}

type archiveFile struct {
	ArchivedAt time.Time             `json:"archived_at"`
	Count      int                   `json:"count"`
	Events     []entities.AuditEvent `json:"events"`
}

// Archive saves events to "<uuid>.json" in Dir and returns the file name.
// Nothing is written for an empty batch.
func (a *Archiver) Archive(events []entities.AuditEvent) (string, error) {
	if len(events) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(archiveFile{
		ArchivedAt: time.Now().UTC(),
		Count:      len(events),
		Events:     events,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit archive: %w", err)
	}

	filename := uuid.NewString() + ".json"
	path := filepath.Join(a.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit archive: %w", err)
	}

	log.Printf("Archived %d audit events to %s", len(events), path)
	return filename, nil
}
