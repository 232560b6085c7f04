package library

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/database/authors"
	"github.com/mrlokans/library-api/internal/database/books"
	"github.com/mrlokans/library-api/internal/database/genres"
	"github.com/mrlokans/library-api/internal/database/publishers"
	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/validation"
)

type CreateAuthorInput struct {
	Name      string               `json:"name" yaml:"name" binding:"required,max=255"`
	BirthDate validation.Timestamp `json:"birth_date" yaml:"birth_date" binding:"required,past"`
}

type CreateGenreInput struct {
	Name string `json:"name" yaml:"name" binding:"required,max=255"`
}

type CreatePublisherInput struct {
	Name string `json:"name" yaml:"name" binding:"required,max=255"`
}

type CreateBookInput struct {
	Title       string               `json:"title" binding:"required,max=512"`
	ISBN        string               `json:"isbn" binding:"required,isbn"`
	PublishDate validation.Timestamp `json:"publish_date" binding:"required,past"`
	AuthorID    uint                 `json:"author_id" binding:"required"`
	PublisherID *uint                `json:"publisher_id"`
	GenreIDs    []uint               `json:"genre_ids"`
}

// CreateAuthor stores a new author. Names are unique after normalization.
func (s *Service) CreateAuthor(ctx context.Context, in CreateAuthorInput) (*entities.Author, error) {
	in.Name = NormalizeName(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	author := &entities.Author{Name: in.Name, BirthDate: in.BirthDate.Time()}
	err := s.inTx(ctx, "create author", func(tx *gorm.DB) error {
		repo := authors.NewRepository(tx)
		if _, err := repo.GetAuthorByName(author.Name); err == nil {
			return conflict(ErrDuplicateName, "Such author already exist")
		} else if !isRecordNotFound(err) {
			return err
		}
		return uniqueInsert(repo.CreateAuthor(author), "Such author already exist")
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, catalogEvent("author_create", "author", author.ID, "Created author: "+author.Name))
	return author, nil
}

// CreateGenre stores a new genre.
func (s *Service) CreateGenre(ctx context.Context, in CreateGenreInput) (*entities.Genre, error) {
	in.Name = NormalizeName(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	genre := &entities.Genre{Name: in.Name}
	err := s.inTx(ctx, "create genre", func(tx *gorm.DB) error {
		repo := genres.NewRepository(tx)
		if _, err := repo.GetGenreByName(genre.Name); err == nil {
			return conflict(ErrDuplicateName, "Genre already exist")
		} else if !isRecordNotFound(err) {
			return err
		}
		return uniqueInsert(repo.CreateGenre(genre), "Genre already exist")
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, catalogEvent("genre_create", "genre", genre.ID, "Created genre: "+genre.Name))
	return genre, nil
}

// CreatePublisher stores a new publisher.
func (s *Service) CreatePublisher(ctx context.Context, in CreatePublisherInput) (*entities.Publisher, error) {
	in.Name = NormalizeName(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	publisher := &entities.Publisher{Name: in.Name}
	err := s.inTx(ctx, "create publisher", func(tx *gorm.DB) error {
		repo := publishers.NewRepository(tx)
		if _, err := repo.GetPublisherByName(publisher.Name); err == nil {
			return conflict(ErrDuplicateName, "Publisher already exist")
		} else if !isRecordNotFound(err) {
			return err
		}
		return uniqueInsert(repo.CreatePublisher(publisher), "Publisher already exist")
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, catalogEvent("publisher_create", "publisher", publisher.ID, "Created publisher: "+publisher.Name))
	return publisher, nil
}

// uniqueInsert maps a unique index violation from a racing insert onto the
// same conflict the pre-read reports.
func uniqueInsert(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict(ErrDuplicateName, message)
	}
	return err
}

// CreateBook stores a book after resolving its author, publisher and genres.
// All genre IDs are checked with one query; a single missing ID fails the set.
func (s *Service) CreateBook(ctx context.Context, in CreateBookInput) (*entities.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.check(in); err != nil {
		return nil, err
	}

	var created *entities.Book
	err := s.inTx(ctx, "create book", func(tx *gorm.DB) error {
		if _, err := authors.NewRepository(tx).GetAuthorByID(in.AuthorID); err != nil {
			if isRecordNotFound(err) {
				return notFound("author", "Author not found")
			}
			return err
		}

		if in.PublisherID != nil {
			if _, err := publishers.NewRepository(tx).GetPublisherByID(*in.PublisherID); err != nil {
				if isRecordNotFound(err) {
					return notFound("publisher", "Publisher not found")
				}
				return err
			}
		}

		ids := uniqueIDs(in.GenreIDs)
		found, err := genres.NewRepository(tx).GetGenresByIDs(ids)
		if err != nil {
			return err
		}
		if len(found) != len(ids) {
			return notFound("genre", "One or more genres not found")
		}

		repo := books.NewRepository(tx)
		book := &entities.Book{
			Title:       in.Title,
			ISBN:        in.ISBN,
			PublishDate: in.PublishDate.Time(),
			AuthorID:    in.AuthorID,
			PublisherID: in.PublisherID,
			Genres:      found,
		}
		if err := repo.CreateBook(book); err != nil {
			return err
		}

		created, err = repo.GetBookByID(book.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, Event{
		Type:        entities.AuditEventCatalog,
		Action:      "book_create",
		EntityType:  "book",
		EntityID:    created.ID,
		Description: "Created book: " + created.Title,
		Metadata:    map[string]any{"isbn": created.ISBN, "author_id": created.AuthorID, "genres": len(created.Genres)},
	})
	return created, nil
}

// AuthorBooks lists an author's books. An unknown author yields an empty list.
func (s *Service) AuthorBooks(ctx context.Context, authorID uint) ([]entities.Book, error) {
	list, err := books.NewRepository(s.db.WithContext(ctx)).GetBooksByAuthor(authorID)
	if err != nil {
		return nil, storageErr("list author books", err)
	}
	return list, nil
}

// GetBook retrieves one book with its relations.
func (s *Service) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := books.NewRepository(s.db.WithContext(ctx)).GetBookByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("book", "Book not found")
		}
		return nil, storageErr("get book", err)
	}
	return book, nil
}

// ListBooks returns a sorted page of books.
func (s *Service) ListBooks(ctx context.Context, opts database.BookListOptions) ([]entities.Book, error) {
	switch opts.SortBy {
	case database.SortNone, database.SortTitle, database.SortPublishDate, database.SortAuthor:
	default:
		return nil, &ValidationError{Fields: []validation.FieldError{{
			Field: "sort_by", Tag: "oneof", Message: "Value should be one of: title, publish_date, author",
		}}}
	}
	if opts.Order == "" {
		opts.Order = database.OrderAsc
	}

	list, err := books.NewRepository(s.db.WithContext(ctx)).ListBooks(opts)
	if err != nil {
		return nil, storageErr("list books", err)
	}
	return list, nil
}

// ListGenres returns a page of genres.
func (s *Service) ListGenres(ctx context.Context, page database.Page) ([]entities.Genre, error) {
	list, err := genres.NewRepository(s.db.WithContext(ctx)).ListGenres(page)
	if err != nil {
		return nil, storageErr("list genres", err)
	}
	return list, nil
}

// ListPublishers returns a page of publishers.
func (s *Service) ListPublishers(ctx context.Context, page database.Page) ([]entities.Publisher, error) {
	list, err := publishers.NewRepository(s.db.WithContext(ctx)).ListPublishers(page)
	if err != nil {
		return nil, storageErr("list publishers", err)
	}
	return list, nil
}

func catalogEvent(action, entityType string, id uint, description string) Event {
	return Event{
		Type:        entities.AuditEventCatalog,
		Action:      action,
		EntityType:  entityType,
		EntityID:    id,
		Description: description,
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
