package handler

import (
	"strconv"
	"strings"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/deppfellow/posts-api/internal/model"
	"github.com/deppfellow/posts-api/internal/server"
	"github.com/deppfellow/posts-api/internal/service"
	"github.com/deppfellow/posts-api/internal/sqlerr"
	"github.com/deppfellow/posts-api/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	msgPostNotFound = "Post not found"
	msgPostDeleted  = "Post deleted successfully"
)

// PostHandler serves the /api/posts resource.
type PostHandler struct {
	Handler
	posts *service.PostService
}

func NewPostHandler(s *server.Server, posts *service.PostService) *PostHandler {
	return &PostHandler{
		Handler: NewHandler(s),
		posts:   posts,
	}
}

// ---------------- Requests ---------------------------------------------------

// PostID is embedded by requests addressed to a single post. It must be
// exported for echo to bind into it.
type PostID struct {
	ID string `param:"id" json:"-"`
	id int64
}

func (p *PostID) validateID() error {
	if !validation.ValidateID(p.ID) {
		return errs.NewBadRequestError(validation.MsgInvalidID)
	}
	p.id, _ = strconv.ParseInt(p.ID, 10, 64)
	return nil
}

// ListPostsRequest carries the raw query string. Pagination values never
// fail validation; bad ones fall back to defaults.
type ListPostsRequest struct {
	Page   string `query:"page"`
	Limit  string `query:"limit"`
	Search string `query:"search"`

	page, limit int
}

func (r *ListPostsRequest) Validate() error {
	r.page, r.limit = validation.ValidatePagination(r.Page, r.Limit)
	r.Search = strings.TrimSpace(r.Search)
	return nil
}

type GetPostRequest struct {
	PostID
}

func (r *GetPostRequest) Validate() error {
	return r.validateID()
}

// CreatePostRequest fields are untyped so that a wrong JSON type is reported
// with the same message as a missing value instead of a decode error.
type CreatePostRequest struct {
	Title  any `json:"title"`
	Body   any `json:"body"`
	UserID any `json:"user_id"`

	userID int64
}

func (r *CreatePostRequest) Validate() error {
	if validation.IsBlankValue(r.UserID) {
		return errs.NewBadRequestError(validation.MsgUserIDRequired)
	}

	if ok, problems := validation.ValidatePostData(r.Title, r.Body); !ok {
		return validation.Errors(problems)
	}

	userID, err := validation.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	r.userID = userID

	return nil
}

// UpdatePostRequest ignores any user_id in the body.
type UpdatePostRequest struct {
	PostID
	Title any `json:"title"`
	Body  any `json:"body"`
}

func (r *UpdatePostRequest) Validate() error {
	if err := r.validateID(); err != nil {
		return err
	}

	if ok, problems := validation.ValidatePostData(r.Title, r.Body); !ok {
		return validation.Errors(problems)
	}

	return nil
}

type DeletePostRequest struct {
	PostID
}

func (r *DeletePostRequest) Validate() error {
	return r.validateID()
}

// DeletePostResponse is the data of a successful delete.
type DeletePostResponse struct {
	Message string `json:"message"`
}

// ---------------- Endpoints --------------------------------------------------

// ListPosts handles GET /api/posts.
func (h *PostHandler) ListPosts(c echo.Context, req *ListPostsRequest) (*model.PostPage, error) {
	page, err := h.posts.List(c.Request().Context(), service.ListPostsInput{
		Page:   req.page,
		Limit:  req.limit,
		Search: req.Search,
	})
	if err != nil {
		return nil, sqlerr.HandleError(err, msgPostNotFound)
	}
	return page, nil
}

// GetPost handles GET /api/posts/:id.
func (h *PostHandler) GetPost(c echo.Context, req *GetPostRequest) (*model.Post, error) {
	post, err := h.posts.Get(c.Request().Context(), req.id)
	if err != nil {
		return nil, sqlerr.HandleError(err, msgPostNotFound)
	}
	return post, nil
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(c echo.Context, req *CreatePostRequest) (*model.Post, error) {
	post, err := h.posts.Create(
		c.Request().Context(),
		validation.SanitizeString(req.Title),
		validation.SanitizeString(req.Body),
		req.userID,
	)
	if err != nil {
		return nil, sqlerr.HandleError(err, msgPostNotFound)
	}
	return post, nil
}

// UpdatePost handles PUT /api/posts/:id.
func (h *PostHandler) UpdatePost(c echo.Context, req *UpdatePostRequest) (*model.Post, error) {
	post, err := h.posts.Update(
		c.Request().Context(),
		req.id,
		validation.SanitizeString(req.Title),
		validation.SanitizeString(req.Body),
	)
	if err != nil {
		return nil, sqlerr.HandleError(err, msgPostNotFound)
	}
	return post, nil
}

// DeletePost handles DELETE /api/posts/:id. Deleting an id that does not
// exist still succeeds.
func (h *PostHandler) DeletePost(c echo.Context, req *DeletePostRequest) (*DeletePostResponse, error) {
	if err := h.posts.Delete(c.Request().Context(), req.id); err != nil {
		return nil, sqlerr.HandleError(err, msgPostNotFound)
	}
	return &DeletePostResponse{Message: msgPostDeleted}, nil
}
