// internal/domain/feed/dto.go
package feed

type ListQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

type ListResponse struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags,omitempty" binding:"omitempty,max=10"`
}
