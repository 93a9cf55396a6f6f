package router

import (
	"net/http"

	"github.com/deppfellow/posts-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerPostRoutes(api *echo.Group, h *handler.Handlers) {
	posts := api.Group("/posts")

	posts.GET("", handler.Handle(h.Posts.ListPosts, http.StatusOK))
	posts.POST("", handler.Handle(h.Posts.CreatePost, http.StatusCreated))
	posts.GET("/:id", handler.Handle(h.Posts.GetPost, http.StatusOK))
	posts.PUT("/:id", handler.Handle(h.Posts.UpdatePost, http.StatusOK))
	posts.DELETE("/:id", handler.Handle(h.Posts.DeletePost, http.StatusOK))
}
