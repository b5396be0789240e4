package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ArticleFilter narrows the published listing. Empty fields are ignored.
type ArticleFilter struct {
	CategorySlug string
	Query        string
}

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	FindPublishedBySlug(ctx context.Context, slug string) (*entity.Article, error)
	FindPublished(ctx context.Context, filter ArticleFilter, offset, limit int) ([]*entity.Article, error)
	CountPublished(ctx context.Context, filter ArticleFilter) (int64, error)
	// SearchPublished matches query as a case-insensitive substring of
	// title, description or content. Newest first.
	SearchPublished(ctx context.Context, query string, limit int) ([]*entity.Article, error)
	FindReadByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Article, error)
	// FindRelated lists other published articles in the same category.
	FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*entity.Article, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type articleRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewArticleRepository(db database.DBTX, log *zap.Logger) ArticleRepository {
	return &articleRepository{
		db:  db,
		log: log.With(zap.String("repository", "article")),
	}
}

const articleSelect = `
		SELECT a.id, a.category_id, a.title, a.slug, a.description, a.content,
		       a.author, a.read_time, a.views, a.is_published, a.created_at, a.updated_at,
		       c.id, c.name, c.slug, c.description, c.icon, c.color, c.created_at
		FROM articles a
		JOIN categories c ON c.id = a.category_id`

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	var c entity.Category
	err := row.Scan(
		&a.ID,
		&a.CategoryID,
		&a.Title,
		&a.Slug,
		&a.Description,
		&a.Content,
		&a.Author,
		&a.ReadTime,
		&a.Views,
		&a.IsPublished,
		&a.CreatedAt,
		&a.UpdatedAt,
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Icon,
		&c.Color,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Category = &c
	return &a, nil
}

func (r *articleRepository) scanRows(rows pgx.Rows) ([]*entity.Article, error) {
	defer rows.Close()

	var articles []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			r.log.Error("Failed to scan article row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (id, category_id, title, slug, description, content,
		                      author, read_time, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.CategoryID,
		a.Title,
		a.Slug,
		a.Description,
		a.Content,
		a.Author,
		a.ReadTime,
		a.Views,
		a.IsPublished,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create article",
			zap.Error(err),
			zap.String("slug", a.Slug),
		)
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

func (r *articleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	query := articleSelect + ` WHERE a.slug = $1 AND a.is_published = true`

	a, err := scanArticle(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find article",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	return a, nil
}

// buildFilter returns the WHERE clause (after the published check) and
// its args, numbered from $1.
func buildFilter(filter ArticleFilter) (string, []any) {
	var sb strings.Builder
	args := []any{}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		sb.WriteString(fmt.Sprintf(" AND c.slug = $%d", len(args)))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		sb.WriteString(fmt.Sprintf(" AND (a.title ILIKE $%d OR a.description ILIKE $%d OR a.content ILIKE $%d)", n, n, n))
	}

	return sb.String(), args
}

func (r *articleRepository) FindPublished(ctx context.Context, filter ArticleFilter, offset, limit int) ([]*entity.Article, error) {
	where, args := buildFilter(filter)

	query := articleSelect + ` WHERE a.is_published = true` + where +
		fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list articles",
			zap.Error(err),
			zap.String("category", filter.CategorySlug),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return r.scanRows(rows)
}

func (r *articleRepository) CountPublished(ctx context.Context, filter ArticleFilter) (int64, error) {
	where, args := buildFilter(filter)

	query := `SELECT COUNT(*) FROM articles a JOIN categories c ON c.id = a.category_id WHERE a.is_published = true` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count articles", zap.Error(err))
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return total, nil
}

func (r *articleRepository) SearchPublished(ctx context.Context, query string, limit int) ([]*entity.Article, error) {
	pattern := "%" + escapeLike(query) + "%"

	sql := articleSelect + `
		WHERE a.is_published = true
		  AND (a.title ILIKE $1 OR a.description ILIKE $1 OR a.content ILIKE $1)
		ORDER BY a.created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, pattern, limit)
	if err != nil {
		r.log.Error("Failed to search articles",
			zap.Error(err),
			zap.String("query", query),
		)
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	return r.scanRows(rows)
}

func (r *articleRepository) FindReadByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Article, error) {
	query := articleSelect + `
		JOIN user_articles_read ur ON ur.article_id = a.id
		WHERE ur.user_id = $1
		ORDER BY ur.read_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to list read articles",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to list read articles: %w", err)
	}

	return r.scanRows(rows)
}

func (r *articleRepository) FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*entity.Article, error) {
	query := articleSelect + `
		WHERE a.category_id = $1 AND a.id <> $2 AND a.is_published = true
		ORDER BY a.created_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, categoryID, excludeID, limit)
	if err != nil {
		r.log.Error("Failed to list related articles",
			zap.Error(err),
			zap.String("article_id", excludeID.String()),
		)
		return nil, fmt.Errorf("failed to list related articles: %w", err)
	}

	return r.scanRows(rows)
}

func (r *articleRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to increment views",
			zap.Error(err),
			zap.String("article_id", id.String()),
		)
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		r.log.Error("Failed to check article slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
