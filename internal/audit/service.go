// Package audit records successful library mutations and session changes as
// AuditEvent rows and prunes them after the retention period.
//
// Writes happen off the request path; Wait blocks until every pending write
// has finished, which shutdown and tests rely on.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/database/audit"
	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/requestid"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until all background writes have completed.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Record stores a library event, tagged with the request ID found in ctx.
func (s *Service) Record(ctx context.Context, e library.Event) {
	event := &entities.AuditEvent{
		UserID:      e.UserID,
		EventType:   e.Type,
		Action:      e.Action,
		Description: truncate(e.Description, 500),
		EntityType:  e.EntityType,
		RequestID:   requestid.FromContext(ctx),
		Status:      entities.AuditStatusSuccess,
	}
	if e.EntityID != 0 {
		id := e.EntityID
		event.EntityID = &id
	}
	if len(e.Metadata) > 0 {
		if md, err := json.Marshal(e.Metadata); err == nil {
			event.Metadata = string(md)
		}
	}

	s.LogAsync(event)
}

// LogSession records a reader session being opened or closed.
func (s *Service) LogSession(ctx context.Context, readerID uint, action string, err error) {
	event := &entities.AuditEvent{
		UserID:    readerID,
		EventType: entities.AuditEventSession,
		Action:    action,
		RequestID: requestid.FromContext(ctx),
		Status:    entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves a page of audit events, most recent first.
func (s *Service) GetEvents(userID uint, eventType entities.AuditEventType, page database.Page) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(userID, eventType, page)
}

// EventsBefore retrieves the events a cleanup with this cutoff would remove.
func (s *Service) EventsBefore(cutoff time.Time) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsBefore(cutoff)
}

// DeleteBefore removes every event created before the cutoff.
func (s *Service) DeleteBefore(cutoff time.Time) (int64, error) {
	return s.repo.DeleteOldEvents(cutoff)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	return s.DeleteBefore(time.Now().UTC().Add(-retention))
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
