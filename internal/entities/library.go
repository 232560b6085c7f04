package entities

import "time"

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Books     []Book    `json:"-"`
}

type Publisher struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Books []Book `json:"-"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512;not null" json:"title"`
	ISBN        string     `gorm:"column:isbn;size:32;not null" json:"isbn"`
	PublishDate time.Time  `gorm:"index" json:"publish_date"`
	AuthorID    uint       `gorm:"index;not null" json:"author_id"`
	Author      *Author    `gorm:"constraint:OnDelete:RESTRICT" json:"author,omitempty"`
	PublisherID *uint      `gorm:"index" json:"publisher_id"`
	Publisher   *Publisher `gorm:"constraint:OnDelete:SET NULL" json:"publisher,omitempty"`
	Genres      []Genre    `gorm:"many2many:book_genres" json:"genres"`
}

// Borrow is one borrowing episode. A book is on loan while it has a Borrow
// with IsDone == false; at most one such row exists per book.
type Borrow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Book      *Book     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	IsDone    bool      `gorm:"not null" json:"is_done"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Return closes a borrowing episode.
type Return struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Book      *Book     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// BookHistory is every borrow and return recorded for one book.
type BookHistory struct {
	Borrows []Borrow `json:"borrows"`
	Returns []Return `json:"returns"`
}
