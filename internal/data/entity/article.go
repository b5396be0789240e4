package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	BaseSimple
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	Icon        string `db:"icon"`
	Color       string `db:"color"`
}

type Article struct {
	BaseNoDelete
	CategoryID  uuid.UUID `db:"category_id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Content     string    `db:"content"`
	Author      string    `db:"author"`
	ReadTime    int       `db:"read_time"` // minutes
	Views       int       `db:"views"`
	IsPublished bool      `db:"is_published"`

	// joined, not a column
	Category *Category `db:"-"`
}

// ArticleRead records that a user opened an article.
type ArticleRead struct {
	UserID    uuid.UUID `db:"user_id"`
	ArticleID uuid.UUID `db:"article_id"`
	ReadAt    time.Time `db:"read_at"`
}
