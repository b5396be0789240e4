package response

import (
	"time"

	"knowledge-assistant/internal/data/entity"
)

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type ArticleSummaryResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Author      string            `json:"author"`
	ReadTime    int               `json:"read_time"`
	Views       int               `json:"views"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ArticleDetailResponse struct {
	ArticleSummaryResponse
	Content   string                   `json:"content"`
	UpdatedAt time.Time                `json:"updated_at"`
	Related   []ArticleSummaryResponse `json:"related"`
}

func CategoryToResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
	}
}

func CategoriesToResponse(categories []*entity.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryToResponse(c))
	}
	return result
}

func ArticleToSummary(a *entity.Article) ArticleSummaryResponse {
	resp := ArticleSummaryResponse{
		ID:          a.ID.String(),
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Author:      a.Author,
		ReadTime:    a.ReadTime,
		Views:       a.Views,
		CreatedAt:   a.CreatedAt,
	}
	if a.Category != nil {
		c := CategoryToResponse(a.Category)
		resp.Category = &c
	}
	return resp
}

func ArticlesToSummaries(articles []*entity.Article) []ArticleSummaryResponse {
	result := make([]ArticleSummaryResponse, 0, len(articles))
	for _, a := range articles {
		result = append(result, ArticleToSummary(a))
	}
	return result
}

func ArticleToDetail(a *entity.Article, related []*entity.Article) *ArticleDetailResponse {
	return &ArticleDetailResponse{
		ArticleSummaryResponse: ArticleToSummary(a),
		Content:                a.Content,
		UpdatedAt:              a.UpdatedAt,
		Related:                ArticlesToSummaries(related),
	}
}
