package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

// AdminAccount is the operator account created by the CLI.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

type SeedResult struct {
	AdminCreated      bool
	CategoriesCreated int
	ArticlesCreated   int
}

// SetupService backs the seed and create-admin commands. Every operation is
// idempotent.
type SetupService interface {
	EnsureAdmin(ctx context.Context, admin AdminAccount) (bool, error)
	SeedSampleData(ctx context.Context, admin AdminAccount) (*SeedResult, error)
}

type setupService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  Clock
}

func NewSetupService(repo *repository.Repository, log *zap.Logger, now Clock) SetupService {
	if now == nil {
		now = time.Now
	}
	return &setupService{
		repo: repo,
		log:  log.With(zap.String("service", "setup")),
		now:  now,
	}
}

// EnsureAdmin creates the admin with profile and settings unless the
// username is already taken. It reports whether an account was created.
func (s *setupService) EnsureAdmin(ctx context.Context, admin AdminAccount) (bool, error) {
	admin.Username = strings.TrimSpace(admin.Username)
	admin.Email = normalizeEmail(admin.Email)
	if admin.Username == "" || admin.Password == "" {
		return false, validationError("admin username and password are required")
	}

	existing, err := s.repo.User.FindByUsername(ctx, admin.Username)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	if existing != nil {
		s.log.Info("Admin already exists", zap.String("username", admin.Username))
		return false, nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base:          entity.NewBase(now),
		Username:      admin.Username,
		Email:         admin.Email,
		PasswordHash:  hashed,
		Role:          entity.RoleAdmin,
		EmailVerified: true,
		IsActive:      true,
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Profile.Create(ctx, &entity.Profile{UserID: user.ID, JoinedAt: now}); err != nil {
			return err
		}
		return tx.Settings.Create(ctx, entity.DefaultSettings(user.ID, now))
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return false, ErrDuplicateAccount
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info("Admin created", zap.String("username", user.Username), zap.String("user_id", user.ID.String()))
	return true, nil
}

// SeedSampleData loads the demo categories and articles, creating the admin
// first when its credentials are given.
func (s *setupService) SeedSampleData(ctx context.Context, admin AdminAccount) (*SeedResult, error) {
	result := &SeedResult{}

	if admin.Username != "" && admin.Password != "" {
		created, err := s.EnsureAdmin(ctx, admin)
		if err != nil {
			return nil, err
		}
		result.AdminCreated = created
	}

	// 1. Categories
	categories := make(map[string]*entity.Category, len(sampleCategories))
	for _, sc := range sampleCategories {
		slug := utils.Slugify(sc.Name)
		category, err := s.repo.Category.FindBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to find category %s: %w", slug, err)
		}
		if category == nil {
			category = &entity.Category{
				BaseSimple:  entity.NewBaseSimple(s.now()),
				Name:        sc.Name,
				Slug:        slug,
				Description: "Learn about " + strings.ToLower(sc.Name),
				Icon:        sc.Icon,
				Color:       sc.Color,
			}
			if err := s.repo.Category.Create(ctx, category); err != nil {
				return nil, fmt.Errorf("failed to create category %s: %w", slug, err)
			}
			result.CategoriesCreated++
		}
		categories[sc.Name] = category
	}

	// 2. Articles, matched by slug
	for _, sa := range sampleArticles {
		slug := utils.Slugify(sa.Title)
		exists, err := s.repo.Article.SlugExists(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to check article %s: %w", slug, err)
		}
		if exists {
			continue
		}

		now := s.now()
		article := &entity.Article{
			BaseNoDelete: entity.NewBaseNoDelete(now),
			CategoryID:   categories[sa.Category].ID,
			Title:        sa.Title,
			Slug:         slug,
			Description:  sa.Description,
			Content:      sa.Content,
			Author:       admin.Username,
			ReadTime:     sa.ReadTime,
			IsPublished:  true,
		}
		if err := s.repo.Article.Create(ctx, article); err != nil {
			return nil, fmt.Errorf("failed to create article %s: %w", slug, err)
		}
		result.ArticlesCreated++
	}

	s.log.Info("Sample data loaded",
		zap.Bool("admin_created", result.AdminCreated),
		zap.Int("categories", result.CategoriesCreated),
		zap.Int("articles", result.ArticlesCreated))
	return result, nil
}
