// internal/handlers/feed/feed_handler.go
package feed

import (
	"net/http"

	feeddomain "slate-service/internal/domain/feed"
	"slate-service/internal/middleware"
	"slate-service/internal/pkg/response"
	feedUsecase "slate-service/internal/service/feed"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedHandler struct {
	feedService *feedUsecase.FeedService
	logger      *zap.Logger
}

func NewFeedHandler(feedService *feedUsecase.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		logger:      logger,
	}
}

// GetFeed returns a page of the user's feed
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var q feeddomain.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	page, err := h.feedService.GetFeed(c.Request.Context(), userID, q)
	if err != nil {
		h.logger.Error("failed to load feed", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "feed", page)
}

// CreatePost publishes a new post
func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req feeddomain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	item, err := h.feedService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("failed to create post", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, "post created", item)
}
