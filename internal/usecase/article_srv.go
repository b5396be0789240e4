package usecase

import (
	"context"
	"fmt"
	"strings"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/dto/response"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	relatedArticles = 3
	wordsPerMinute  = 200
	maxSlugAttempts = 50
)

type ArticleService interface {
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
	ListArticles(ctx context.Context, req *request.ArticleListRequest) (*response.PaginatedResponse[response.ArticleSummaryResponse], error)
	// GetArticle counts a view, records the read and, if the reader wants
	// article alerts, leaves a notification.
	GetArticle(ctx context.Context, userID uuid.UUID, slug string) (*response.ArticleDetailResponse, error)
	CreateArticle(ctx context.Context, req *request.CreateArticleRequest) (*response.ArticleDetailResponse, error)
}

type articleService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  Clock
}

func NewArticleService(repo *repository.Repository, log *zap.Logger, now Clock) ArticleService {
	return &articleService{
		repo: repo,
		log:  log.With(zap.String("service", "article")),
		now:  now,
	}
}

func (s *articleService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to get categories")
	}
	return response.CategoriesToResponse(categories), nil
}

func (s *articleService) ListArticles(ctx context.Context, req *request.ArticleListRequest) (*response.PaginatedResponse[response.ArticleSummaryResponse], error) {
	// Set defaults
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	filter := repository.ArticleFilter{
		CategorySlug: strings.TrimSpace(req.Category),
		Query:        strings.TrimSpace(req.Query),
	}

	articles, err := s.repo.Article.FindPublished(ctx, filter, req.Offset(), req.PerPage)
	if err != nil {
		s.log.Error("Failed to list articles", zap.Error(err))
		return nil, fmt.Errorf("failed to get articles")
	}

	total, err := s.repo.Article.CountPublished(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count articles", zap.Error(err))
		return nil, fmt.Errorf("failed to get articles")
	}

	return response.NewPaginatedResponse(response.ArticlesToSummaries(articles), req.Page, req.PerPage, total), nil
}

func (s *articleService) GetArticle(ctx context.Context, userID uuid.UUID, slug string) (*response.ArticleDetailResponse, error) {
	article, err := s.repo.Article.FindPublishedBySlug(ctx, slug)
	if err != nil {
		s.log.Error("Failed to find article", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to get article")
	}
	if article == nil {
		return nil, fmt.Errorf("article %w", ErrNotFound)
	}

	// Side effects below are best effort; the reader still gets the article.
	if err := s.repo.Article.IncrementViews(ctx, article.ID); err != nil {
		s.log.Warn("Failed to count view", zap.Error(err), zap.String("slug", slug))
	} else {
		article.Views++
	}

	if err := s.repo.Profile.MarkArticleRead(ctx, userID, article.ID); err != nil {
		s.log.Warn("Failed to record article read", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.notifyArticleRead(ctx, userID, article)

	related, err := s.repo.Article.FindRelated(ctx, article.CategoryID, article.ID, relatedArticles)
	if err != nil {
		s.log.Warn("Failed to load related articles", zap.Error(err), zap.String("slug", slug))
		related = nil
	}

	return response.ArticleToDetail(article, related), nil
}

func (s *articleService) CreateArticle(ctx context.Context, req *request.CreateArticleRequest) (*response.ArticleDetailResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create article validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Category harus ada
	category, err := s.repo.Category.FindBySlug(ctx, req.CategorySlug)
	if err != nil {
		s.log.Error("Failed to find category", zap.Error(err), zap.String("category", req.CategorySlug))
		return nil, fmt.Errorf("failed to create article")
	}
	if category == nil {
		return nil, validationError("unknown category " + req.CategorySlug)
	}

	// 3. Unique slug
	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	// 4. Create
	now := s.now()
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	readTime := req.ReadTime
	if readTime == 0 {
		readTime = estimateReadTime(req.Content)
	}

	article := &entity.Article{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		CategoryID:   category.ID,
		Title:        strings.TrimSpace(req.Title),
		Slug:         slug,
		Description:  strings.TrimSpace(req.Description),
		Content:      req.Content,
		Author:       strings.TrimSpace(req.Author),
		ReadTime:     readTime,
		IsPublished:  published,
		Category:     category,
	}

	if err := s.repo.Article.Create(ctx, article); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validationError("an article with this slug already exists")
		}
		s.log.Error("Failed to create article", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to create article")
	}

	s.log.Info("Article created",
		zap.String("article_id", article.ID.String()),
		zap.String("slug", slug))

	return response.ArticleToDetail(article, nil), nil
}

// ==================== HELPER METHODS ====================

func (s *articleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "article"
	}
	base = utils.Truncate(base, 190)

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.repo.Article.SlugExists(ctx, candidate)
		if err != nil {
			s.log.Error("Failed to check slug", zap.Error(err), zap.String("slug", candidate))
			return "", fmt.Errorf("failed to create article")
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", validationError("could not generate a unique slug for this title")
}

func (s *articleService) notifyArticleRead(ctx context.Context, userID uuid.UUID, article *entity.Article) {
	settings, err := s.repo.Settings.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load settings", zap.Error(err), zap.String("user_id", userID.String()))
		return
	}
	if settings == nil || !settings.ArticleAlerts {
		return
	}

	categoryName := ""
	if article.Category != nil {
		categoryName = article.Category.Name
	}

	n := &entity.Notification{
		BaseSimple: entity.NewBaseSimple(s.now()),
		UserID:     userID,
		Title:      utils.Truncate("You read: "+article.Title, 200),
		Message:    fmt.Sprintf("You've completed reading this article. Check out related articles in %s.", categoryName),
		Type:       entity.NotificationArticle,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.log.Warn("Failed to create article notification", zap.Error(err), zap.String("user_id", userID.String()))
	}
}

func estimateReadTime(content string) int {
	minutes := len(strings.Fields(content)) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
