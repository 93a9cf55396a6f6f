// Package model holds the domain types shared by the repository, service and
// handler layers.
package model

// Post is a single row of the posts table.
//
// ID is assigned by the database and UserID is set once at creation; only
// Title and Body change afterwards.
type Post struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Body   string `json:"body" db:"body"`
	UserID int64  `json:"user_id" db:"user_id"`
}

// PostFilter selects one page of posts, newest first.
type PostFilter struct {
	// Search, when non-empty, keeps posts whose title or body contains it
	// (case-insensitive).
	Search string
	Limit  int
	Offset int
}

// PostPage is one page of a post listing plus the pagination summary.
type PostPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}
