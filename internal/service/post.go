package service

import (
	"context"
	"math"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/deppfellow/posts-api/internal/validation"
	"github.com/rs/zerolog"
)

// PostStore is the database dependency of PostService. The pgx-backed
// repository implements it in production; tests substitute an in-memory
// store.
type PostStore interface {
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	Update(ctx context.Context, id int64, title, body string) (*model.Post, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ListPostsInput is an already validated listing request.
type ListPostsInput struct {
	Page   int
	Limit  int
	Search string
}

// PostService holds the posts use cases. It does no input validation of its
// own beyond trimming; callers pass values that passed the handler's checks.
// Store errors are returned unchanged.
type PostService struct {
	store PostStore
}

func NewPostService(store PostStore) *PostService {
	return &PostService{store: store}
}

// List returns the requested page and its pagination summary.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (*model.PostPage, error) {
	filter := model.PostFilter{
		Search: in.Search,
		Limit:  in.Limit,
		Offset: PageOffset(in.Page, in.Limit),
	}

	posts, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []model.Post{}
	}

	totalPages := TotalPages(total, in.Limit)

	return &model.PostPage{
		Posts: posts,
		Pagination: model.Pagination{
			CurrentPage: in.Page,
			TotalPages:  totalPages,
			TotalCount:  total,
			Limit:       in.Limit,
			HasNextPage: in.Page < totalPages,
			HasPrevPage: in.Page > 1,
		},
	}, nil
}

// PageOffset is (page-1)*limit, saturated at math.MaxInt so a huge page
// number reads past the end instead of wrapping negative.
func PageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.store.GetByID(ctx, id)
}

// Create stores a new post with trimmed title and body.
func (s *PostService) Create(ctx context.Context, title, body string, userID int64) (*model.Post, error) {
	post, err := s.store.Create(ctx, model.Post{
		Title:  validation.SanitizeString(title),
		Body:   validation.SanitizeString(body),
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("post_id", post.ID).
		Int64("user_id", post.UserID).
		Msg("post created")

	return post, nil
}

// Update replaces the trimmed title and body of post id.
func (s *PostService) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	return s.store.Update(ctx, id, validation.SanitizeString(title), validation.SanitizeString(body))
}

// Delete removes post id. Removing a post that does not exist succeeds.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Int64("post_id", id).
		Bool("existed", deleted).
		Msg("post delete processed")

	return nil
}
