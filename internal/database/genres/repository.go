// Package genres provides database operations for genres.
package genres

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
)

// Repository handles genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateGenre inserts a new genre.
func (r *Repository) CreateGenre(genre *entities.Genre) error {
	return r.db.Create(genre).Error
}

// GetGenreByName retrieves a genre by exact name.
func (r *Repository) GetGenreByName(name string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetGenresByIDs loads every genre whose ID is in ids with a single query.
// Callers compare the result length to detect missing IDs.
func (r *Repository) GetGenresByIDs(ids []uint) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&genres).Error
	return genres, err
}

// ListGenres retrieves a page of genres ordered by ID.
func (r *Repository) ListGenres(page database.Page) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	err := r.db.Scopes(database.Paginate(page)).Order("id ASC").Find(&genres).Error
	return genres, err
}
