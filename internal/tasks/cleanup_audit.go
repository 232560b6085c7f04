package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library-api/internal/entities"
)

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 30

// AuditEventStore reads and deletes expired audit events.
type AuditEventStore interface {
	EventsBefore(cutoff time.Time) ([]entities.AuditEvent, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

// AuditArchiver persists events before they are deleted.
type AuditArchiver interface {
	Archive(events []entities.AuditEvent) (string, error)
}

// CleanupAuditEventsTask removes audit events older than RetentionDays.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuditEventsProcessor deletes expired events, archiving them first
// when an archiver is given. A failed archive leaves the events in place.
func CleanupAuditEventsProcessor(store AuditEventStore, archiver AuditArchiver) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if store == nil {
			return fmt.Errorf("audit event store not configured")
		}

		days := task.RetentionDays
		if days <= 0 {
			days = DefaultAuditRetentionDays
		}
		cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

		if archiver != nil {
			expired, err := store.EventsBefore(cutoff)
			if err != nil {
				return fmt.Errorf("load expired audit events: %w", err)
			}
			if _, err := archiver.Archive(expired); err != nil {
				return fmt.Errorf("archive audit events: %w", err)
			}
		}

		deleted, err := store.DeleteBefore(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d audit events older than %d days", deleted, days)
		return nil
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
// archiver may be nil.
func NewCleanupAuditEventsQueue(store AuditEventStore, archiver AuditArchiver) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(store, archiver))
}
