package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/library-api/internal/database/authors"
	"github.com/mrlokans/library-api/internal/database/books"
	"github.com/mrlokans/library-api/internal/database/genres"
	"github.com/mrlokans/library-api/internal/database/publishers"
	"github.com/mrlokans/library-api/internal/validation"
)

// Fixtures is a catalog described by names instead of IDs, loaded from YAML:
//
//	authors:
//	  - name: Ursula K. Le Guin
//	    birth_date: 1929-10-21
//	publishers:
//	  - name: Ace Books
//	genres:
//	  - name: Science Fiction
//	books:
//	  - title: The Left Hand of Darkness
//	    isbn: 0-441-47812-3
//	    publish_date: 1969-03-01
//	    author: Ursula K. Le Guin
//	    publisher: Ace Books
//	    genres: [Science Fiction]
type Fixtures struct {
	Authors    []CreateAuthorInput    `yaml:"authors"`
	Publishers []CreatePublisherInput `yaml:"publishers"`
	Genres     []CreateGenreInput     `yaml:"genres"`
	Books      []BookFixture          `yaml:"books"`
}

type BookFixture struct {
	Title       string               `yaml:"title"`
	ISBN        string               `yaml:"isbn"`
	PublishDate validation.Timestamp `yaml:"publish_date"`
	Author      string               `yaml:"author"`
	Publisher   string               `yaml:"publisher"`
	Genres      []string             `yaml:"genres"`
}

// SeedReport counts what a seed run created and skipped.
type SeedReport struct {
	Created int
	Skipped int
}

// LoadFixtures decodes YAML fixtures, rejecting unknown keys.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixtures Fixtures
	if err := dec.Decode(&fixtures); err != nil {
		if errors.Is(err, io.EOF) {
			return &fixtures, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fixtures, nil
}

// Seed creates every fixture through the regular operations. Entries that
// already exist are skipped, so seeding twice is harmless.
func (s *Service) Seed(ctx context.Context, f *Fixtures) (SeedReport, error) {
	var report SeedReport

	tally := func(kind, name string, err error) error {
		switch {
		case err == nil:
			report.Created++
			return nil
		case errors.Is(err, ErrDuplicateName):
			report.Skipped++
			log.Printf("Seed: %s %q already exists, skipping", kind, name)
			return nil
		default:
			return fmt.Errorf("seed %s %q: %w", kind, name, err)
		}
	}

	for _, in := range f.Authors {
		_, err := s.CreateAuthor(ctx, in)
		if err := tally("author", in.Name, err); err != nil {
			return report, err
		}
	}
	for _, in := range f.Publishers {
		_, err := s.CreatePublisher(ctx, in)
		if err := tally("publisher", in.Name, err); err != nil {
			return report, err
		}
	}
	for _, in := range f.Genres {
		_, err := s.CreateGenre(ctx, in)
		if err := tally("genre", in.Name, err); err != nil {
			return report, err
		}
	}

	for _, bf := range f.Books {
		in, exists, err := s.resolveBook(ctx, bf)
		if err != nil {
			return report, fmt.Errorf("seed book %q: %w", bf.Title, err)
		}
		if exists {
			report.Skipped++
			log.Printf("Seed: book %q already exists, skipping", bf.Title)
			continue
		}
		_, err = s.CreateBook(ctx, in)
		if err := tally("book", bf.Title, err); err != nil {
			return report, err
		}
	}

	return report, nil
}

// resolveBook turns names into IDs and reports whether the author already
// has a book with this title.
func (s *Service) resolveBook(ctx context.Context, bf BookFixture) (CreateBookInput, bool, error) {
	db := s.db.WithContext(ctx)
	in := CreateBookInput{Title: bf.Title, ISBN: bf.ISBN, PublishDate: bf.PublishDate}

	author, err := authors.NewRepository(db).GetAuthorByName(NormalizeName(bf.Author))
	if err != nil {
		if isRecordNotFound(err) {
			return in, false, notFound("author", "Author not found: "+bf.Author)
		}
		return in, false, err
	}
	in.AuthorID = author.ID

	if _, err := books.NewRepository(db).FindBookByTitle(bf.Title, author.ID); err == nil {
		return in, true, nil
	} else if !isRecordNotFound(err) {
		return in, false, err
	}

	if bf.Publisher != "" {
		publisher, err := publishers.NewRepository(db).GetPublisherByName(NormalizeName(bf.Publisher))
		if err != nil {
			if isRecordNotFound(err) {
				return in, false, notFound("publisher", "Publisher not found: "+bf.Publisher)
			}
			return in, false, err
		}
		in.PublisherID = &publisher.ID
	}

	genreRepo := genres.NewRepository(db)
	for _, name := range bf.Genres {
		genre, err := genreRepo.GetGenreByName(NormalizeName(name))
		if err != nil {
			if isRecordNotFound(err) {
				return in, false, notFound("genre", "Genre not found: "+name)
			}
			return in, false, err
		}
		in.GenreIDs = append(in.GenreIDs, genre.ID)
	}

	return in, false, nil
}
