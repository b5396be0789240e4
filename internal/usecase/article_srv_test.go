package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetArticle_CountsViewAndRecordsRead(t *testing.T) {
	h := newHarness(t)
	userID := registerUser(t, h, "alice")
	cat := seedCategory(h, "Machine Learning", "ml")
	article := seedArticle(h, cat, "Gradient descent", "Step downhill.", true, time.Hour)
	seedArticle(h, cat, "Backprop", "Chain rule.", true, 2*time.Hour)
	seedArticle(h, cat, "Draft", "Unfinished.", false, 0)

	got, err := h.svc.Article.GetArticle(context.Background(), userID, article.Slug)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Views)
	assert.Equal(t, 1, h.db.articles[article.ID].Views)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Machine Learning", got.Category.Name)
	require.Len(t, got.Related, 1)
	assert.Equal(t, "Backprop", got.Related[0].Title)

	_, read := h.db.reads[[2]uuid.UUID{userID, article.ID}]
	assert.True(t, read)

	alerts := notificationsOfType(h, userID, entity.NotificationArticle)
	require.Len(t, alerts, 1)
	assert.Equal(t, "You read: Gradient descent", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "Machine Learning")

	// a second visit counts again but the read stays a single row
	_, err = h.svc.Article.GetArticle(context.Background(), userID, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, h.db.articles[article.ID].Views)
	n, err := h.repo.Profile.CountArticlesRead(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetArticle_AlertsOff(t *testing.T) {
	h := newHarness(t)
	userID := registerUser(t, h, "alice")
	off := false
	_, err := h.svc.User.UpdateSetting(context.Background(), userID, &request.UpdateSettingRequest{Type: "article_alerts", Value: &off})
	require.NoError(t, err)
	cat := seedCategory(h, "Go", "go")
	article := seedArticle(h, cat, "Channels", "Typed pipes.", true, 0)

	_, err = h.svc.Article.GetArticle(context.Background(), userID, article.Slug)

	require.NoError(t, err)
	assert.Empty(t, notificationsOfType(h, userID, entity.NotificationArticle))
}

func TestGetArticle_NotFound(t *testing.T) {
	h := newHarness(t)
	cat := seedCategory(h, "Go", "go")
	draft := seedArticle(h, cat, "Draft", "Unfinished.", false, 0)

	_, err := h.svc.Article.GetArticle(context.Background(), uuid.New(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.Article.GetArticle(context.Background(), uuid.New(), draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListArticles_FiltersAndPages(t *testing.T) {
	h := newHarness(t)
	goCat := seedCategory(h, "Go", "go")
	aiCat := seedCategory(h, "AI", "ai")
	for i, title := range []string{"Go one", "Go two", "Go three"} {
		seedArticle(h, goCat, title, "golang", true, time.Duration(i)*time.Minute)
	}
	seedArticle(h, aiCat, "Transformers", "attention", true, 0)

	page1, err := h.svc.Article.ListArticles(context.Background(), &request.ArticleListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 2},
		Category:         "go",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page1.Pagination.Total)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	require.Len(t, page1.Data, 2)
	assert.Equal(t, "Go one", page1.Data[0].Title)

	search, err := h.svc.Article.ListArticles(context.Background(), &request.ArticleListRequest{Query: "ATTENTION"})
	require.NoError(t, err)
	require.Len(t, search.Data, 1)
	assert.Equal(t, "Transformers", search.Data[0].Title)
	assert.Equal(t, 10, search.Pagination.PerPage)

	categories, err := h.svc.Article.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "AI", categories[0].Name)
}

func TestCreateArticle(t *testing.T) {
	h := newHarness(t)
	seedCategory(h, "Go", "go")

	first, err := h.svc.Article.CreateArticle(context.Background(), &request.CreateArticleRequest{
		CategorySlug: "go",
		Title:        "Error Handling in Go",
		Content:      strings.Repeat("word ", 450),
	})
	require.NoError(t, err)
	assert.Equal(t, "error-handling-in-go", first.Slug)
	assert.Equal(t, 2, first.ReadTime)
	assert.Equal(t, "Go", first.Category.Name)

	unpublished := false
	second, err := h.svc.Article.CreateArticle(context.Background(), &request.CreateArticleRequest{
		CategorySlug: "go",
		Title:        "Error handling in Go!",
		Content:      "short",
		IsPublished:  &unpublished,
	})
	require.NoError(t, err)
	assert.Equal(t, "error-handling-in-go-2", second.Slug)
	assert.Equal(t, 1, second.ReadTime)
	assert.False(t, h.db.articles[uuid.MustParse(second.ID)].IsPublished)

	_, err = h.svc.Article.CreateArticle(context.Background(), &request.CreateArticleRequest{
		CategorySlug: "rust",
		Title:        "Ownership",
		Content:      "borrow checker",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
