package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	auditRepo "github.com/mrlokans/library-api/internal/database/audit"
	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/requestid"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCatalog,
		Action:      "genre_create",
		Description: "Created genre: Drama",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "genre_create", saved.Action)
}

func TestService_Record(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := requestid.NewContext(context.Background(), "req-1")

	svc.Record(ctx, library.Event{
		Type:        entities.AuditEventBorrow,
		Action:      "book_borrow",
		UserID:      3,
		EntityType:  "book",
		EntityID:    9,
		Description: "User 3 borrowed book 9",
		Metadata:    map[string]any{"borrow_id": 12},
	})
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "book_borrow").First(&event).Error)
	assert.Equal(t, entities.AuditEventBorrow, event.EventType)
	assert.Equal(t, uint(3), event.UserID)
	require.NotNil(t, event.EntityID)
	assert.Equal(t, uint(9), *event.EntityID)
	assert.Equal(t, "req-1", event.RequestID)
	assert.JSONEq(t, `{"borrow_id": 12}`, event.Metadata)
	assert.Equal(t, entities.AuditStatusSuccess, event.Status)
}

func TestService_RecordWithoutEntity(t *testing.T) {
	svc, db := setupTestService(t)

	svc.Record(context.Background(), library.Event{Type: entities.AuditEventCatalog, Action: "seed"})
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.First(&event).Error)
	assert.Nil(t, event.EntityID)
	assert.Empty(t, event.Metadata)
	assert.Empty(t, event.RequestID)
}

func TestService_LogSession(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("success", func(t *testing.T) {
		svc.LogSession(context.Background(), 4, "session_open", nil)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "session_open").First(&event).Error)
		assert.Equal(t, entities.AuditEventSession, event.EventType)
		assert.Equal(t, uint(4), event.UserID)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
	})

	t.Run("failure", func(t *testing.T) {
		svc.LogSession(context.Background(), 4, "session_close", errors.New("no session"))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "session_close").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "no session", event.ErrorMsg)
	})
}

func TestService_Retention(t *testing.T) {
	svc, _ := setupTestService(t)
	now := time.Now().UTC()

	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "old", CreatedAt: now.Add(-40 * 24 * time.Hour)}))
	require.NoError(t, svc.Log(&entities.AuditEvent{Action: "new", CreatedAt: now.Add(-time.Hour)}))

	expired, err := svc.EventsBefore(now.Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].Action)

	deleted, err := svc.DeleteOldEvents(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(0, "", database.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}

func TestArchiver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	archiver := NewArchiver(dir)

	t.Run("empty batch writes nothing", func(t *testing.T) {
		name, err := archiver.Archive(nil)
		require.NoError(t, err)
		assert.Empty(t, name)
		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("writes a json file", func(t *testing.T) {
		name, err := archiver.Archive([]entities.AuditEvent{{ID: 1, Action: "author_create"}, {ID: 2, Action: "book_create"}})
		require.NoError(t, err)
		assert.Equal(t, ".json", filepath.Ext(name))

		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)

		var decoded archiveFile
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 2, decoded.Count)
		assert.Equal(t, "book_create", decoded.Events[1].Action)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
