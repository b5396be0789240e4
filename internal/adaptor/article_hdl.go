package adaptor

import (
	"net/http"

	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	service usecase.ArticleService
	log     *zap.Logger
}

func NewArticleHandler(service usecase.ArticleService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		service: service,
		log:     log.With(zap.String("handler", "article")),
	}
}

// Categories handles GET /api/categories
func (h *ArticleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list categories", nil)
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// List handles GET /api/articles?category=&q=&page=&per_page=
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ArticleListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Category: query.Get("category"),
		Query:    query.Get("q"),
	}

	articles, err := h.service.ListArticles(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list articles", nil)
		return
	}

	utils.ResponseSuccess(w, "success", articles)
}

// Detail handles GET /api/articles/{slug}
func (h *ArticleHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	article, err := h.service.GetArticle(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get article", nil)
		return
	}

	utils.ResponseSuccess(w, "success", article)
}

// Create handles POST /api/admin/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateArticleRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	article, err := h.service.CreateArticle(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create article", nil)
		return
	}

	utils.ResponseCreated(w, "Article created", article)
}
