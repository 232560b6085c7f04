// Package publishers provides database operations for publishers.
package publishers

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
)

// Repository handles publisher database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new publishers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePublisher(publisher *entities.Publisher) error {
	return r.db.Create(publisher).Error
}

func (r *Repository) GetPublisherByID(id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	if err := r.db.First(&publisher, id).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *Repository) GetPublisherByName(name string) (*entities.Publisher, error) {
	var publisher entities.Publisher
	if err := r.db.Where("name = ?", name).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

// ListPublishers retrieves a page of publishers ordered by ID.
func (r *Repository) ListPublishers(page database.Page) ([]entities.Publisher, error) {
	publishers := []entities.Publisher{}
	err := r.db.Scopes(database.Paginate(page)).Order("id ASC").Find(&publishers).Error
	return publishers, err
}
