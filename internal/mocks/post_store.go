// Package mocks provides in-memory stand-ins for the database-backed
// dependencies, for use in tests.
package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/jackc/pgx/v5"
)

// PostStore is an in-memory implementation of service.PostStore with the
// same observable behavior as the Postgres repository: ids ascend from 1,
// listings are newest first, search is a case-insensitive substring match on
// title or body, and missing rows are reported as pgx.ErrNoRows.
//
// Setting Err makes every call fail with it. Setting Panic makes every call
// panic with it.
type PostStore struct {
	mu     sync.Mutex
	posts  map[int64]model.Post
	nextID int64

	Err   error
	Panic any

	// Calls counts invocations per method name.
	Calls map[string]int
}

func NewPostStore(seed ...model.Post) *PostStore {
	s := &PostStore{
		posts: make(map[int64]model.Post),
		Calls: make(map[string]int),
	}
	for _, p := range seed {
		if p.ID == 0 {
			s.nextID++
			p.ID = s.nextID
		} else if p.ID > s.nextID {
			s.nextID = p.ID
		}
		s.posts[p.ID] = p
	}
	return s
}

func (s *PostStore) enter(method string) error {
	s.Calls[method]++
	if s.Panic != nil {
		panic(s.Panic)
	}
	return s.Err
}

func (s *PostStore) List(_ context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("List"); err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Title), search) ||
			strings.Contains(strings.ToLower(p.Body), search) {
			matched = append(matched, p)
		}
	}

	slices.SortFunc(matched, func(a, b model.Post) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})

	total := len(matched)
	if filter.Offset >= total {
		return []model.Post{}, total, nil
	}

	end := min(filter.Offset+filter.Limit, total)
	return slices.Clone(matched[filter.Offset:end]), total, nil
}

func (s *PostStore) GetByID(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("GetByID"); err != nil {
		return nil, err
	}

	p, ok := s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (s *PostStore) Create(_ context.Context, post model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Create"); err != nil {
		return nil, err
	}

	s.nextID++
	post.ID = s.nextID
	s.posts[post.ID] = post
	return &post, nil
}

func (s *PostStore) Update(_ context.Context, id int64, title, body string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Update"); err != nil {
		return nil, err
	}

	p, ok := s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Title, p.Body = title, body
	s.posts[id] = p
	return &p, nil
}

func (s *PostStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Delete"); err != nil {
		return false, err
	}

	_, ok := s.posts[id]
	delete(s.posts, id)
	return ok, nil
}

// Len returns the number of stored posts.
func (s *PostStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}
