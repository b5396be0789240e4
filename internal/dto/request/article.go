package request

type ArticleListRequest struct {
	PaginatedRequest
	Category string `json:"category"`
	Query    string `json:"q"`
}

type CreateArticleRequest struct {
	CategorySlug string `json:"category" validate:"required"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	Content      string `json:"content" validate:"required"`
	Author       string `json:"author" validate:"max=100"`
	ReadTime     int    `json:"read_time" validate:"min=0"`
	IsPublished  *bool  `json:"is_published"`
}
