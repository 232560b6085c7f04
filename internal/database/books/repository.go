// Package books provides database operations for the book catalog.
//
// Every read preloads the author, the publisher and the genres so that
// responses can embed them.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	list, err := repo.ListBooks(database.BookListOptions{
//		Page:   database.Page{Limit: 10},
//		SortBy: database.SortAuthor,
//		Order:  database.OrderDesc,
//	})
package books

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
)

// Repository handles book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func genresByID(db *gorm.DB) *gorm.DB {
	return db.Order("genres.id ASC")
}

func (r *Repository) withRelations() *gorm.DB {
	return r.db.Preload("Author").Preload("Publisher").Preload("Genres", genresByID)
}

// CreateBook inserts a book and links the genres already attached to it.
// Genres are referenced, never created.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Omit("Author", "Publisher", "Genres.*").Create(book).Error
}

// GetBookByID retrieves a book with its author, publisher and genres.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.withRelations().First(&book, id).Error; err != nil {
		return nil, err
	}
	fillGenres(&book)
	return &book, nil
}

// FindBookByTitle retrieves an author's book by exact title.
func (r *Repository) FindBookByTitle(title string, authorID uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("title = ? AND author_id = ?", title, authorID).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// BookExists reports whether a book with the given ID is stored.
func (r *Repository) BookExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetBooksByAuthor retrieves every book of an author in ID order.
func (r *Repository) GetBooksByAuthor(authorID uint) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.withRelations().Where("author_id = ?", authorID).Order("id ASC").Find(&books).Error
	for i := range books {
		fillGenres(&books[i])
	}
	return books, err
}

// ListBooks retrieves a sorted page of books. Without a sort field the
// books come back in ID order; ID also breaks ties between equal keys.
func (r *Repository) ListBooks(opts database.BookListOptions) ([]entities.Book, error) {
	desc := opts.Order == database.OrderDesc
	query := r.withRelations().Model(&entities.Book{}).Select("books.*")

	switch opts.SortBy {
	case database.SortTitle:
		query = query.Order(orderBy("books", "title", desc))
	case database.SortPublishDate:
		query = query.Order(orderBy("books", "publish_date", desc))
	case database.SortAuthor:
		query = query.Joins("JOIN authors ON authors.id = books.author_id").
			Order(orderBy("authors", "name", desc))
	}

	books := []entities.Book{}
	err := query.Order(orderBy("books", "id", false)).
		Scopes(database.Paginate(opts.Page)).
		Find(&books).Error
	for i := range books {
		fillGenres(&books[i])
	}
	return books, err
}

// fillGenres keeps "genres" a JSON array for books without any.
func fillGenres(book *entities.Book) {
	if book.Genres == nil {
		book.Genres = []entities.Genre{}
	}
}

func orderBy(table, column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: table, Name: column}, Desc: desc}
}
