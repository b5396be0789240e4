package usecase

import (
	"context"
	"fmt"
	"strings"

	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

const (
	DefaultContextLimit = 3
	excerptRunes        = 500
)

// KnowledgeService turns a free-text query into prompt context.
type KnowledgeService interface {
	// BuildContext returns one block per matching published article, or ""
	// when the query is blank or nothing matches.
	BuildContext(ctx context.Context, query string, limit int) (string, error)
}

type knowledgeService struct {
	articleRepo repository.ArticleRepository
	log         *zap.Logger
}

func NewKnowledgeService(articleRepo repository.ArticleRepository, log *zap.Logger) KnowledgeService {
	return &knowledgeService{
		articleRepo: articleRepo,
		log:         log.With(zap.String("service", "knowledge")),
	}
}

func (s *knowledgeService) BuildContext(ctx context.Context, query string, limit int) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	articles, err := s.articleRepo.SearchPublished(ctx, query, limit)
	if err != nil {
		s.log.Error("Failed to search knowledge base", zap.Error(err))
		return "", fmt.Errorf("failed to search knowledge base")
	}

	var sb strings.Builder
	for _, a := range articles {
		sb.WriteString("\n\nArticle: ")
		sb.WriteString(a.Title)
		sb.WriteString("\n")
		sb.WriteString(utils.Truncate(a.Content, excerptRunes))
		sb.WriteString("...")
	}

	s.log.Debug("Knowledge context built", zap.Int("matches", len(articles)))
	return sb.String(), nil
}
