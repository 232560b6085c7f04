package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves a page of audit events, most recent first.
// A zero userID or empty eventType disables that filter.
func (r *Repository) GetEvents(userID uint, eventType entities.AuditEventType, page database.Page) ([]entities.AuditEvent, int64, error) {
	events := []entities.AuditEvent{}
	var total int64

	query := r.db.Model(&entities.AuditEvent{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(database.Paginate(page)).
		Find(&events).Error
	return events, total, err
}

// GetEventsBefore retrieves every event created before the cutoff, oldest first.
func (r *Repository) GetEventsBefore(cutoff time.Time) ([]entities.AuditEvent, error) {
	events := []entities.AuditEvent{}
	err := r.db.Where("created_at < ?", cutoff).Order("created_at ASC").Order("id ASC").Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
