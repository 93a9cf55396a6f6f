package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DBTX is the part of the pgx API the repositories use. *pgxpool.Pool,
// *pgx.Conn and pgx.Tx all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const postColumns = "id, title, body, user_id"

// PostRepository runs the posts queries.
//
// Every error is returned with a stack attached (pkg/errors) but with the
// driver's message untouched, since that message is what the client sees.
type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

// List returns one page of posts, newest first, and the number of posts
// matching the filter regardless of paging.
//
// The count and the page travel in a single batch, which pgx runs in one
// implicit transaction, so both see the same snapshot.
func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	where, args := searchClause(filter.Search)

	batch := &pgx.Batch{}
	batch.Queue("SELECT COUNT(*) FROM posts"+where, args...)

	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)
	batch.Queue(
		fmt.Sprintf("SELECT %s FROM posts%s ORDER BY id DESC LIMIT $%d OFFSET $%d",
			postColumns, where, len(args)+1, len(args)+2),
		pageArgs...,
	)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	rows, err := results.Query()
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return posts, total, nil
}

// GetByID returns the post with id, or pgx.ErrNoRows.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	rows, err := r.db.Query(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &post, nil
}

// Create inserts a post and returns it with its database-assigned id.
func (r *PostRepository) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	rows, err := r.db.Query(ctx,
		"INSERT INTO posts (title, body, user_id) VALUES ($1, $2, $3) RETURNING "+postColumns,
		post.Title, post.Body, post.UserID,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &created, nil
}

// Update replaces title and body of post id and returns the stored row.
// user_id is never touched. A missing post yields pgx.ErrNoRows.
func (r *PostRepository) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	rows, err := r.db.Query(ctx,
		"UPDATE posts SET title = $1, body = $2 WHERE id = $3 RETURNING "+postColumns,
		title, body, id,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &updated, nil
}

// Delete removes post id if it exists and reports whether a row was removed.
// Deleting a missing post is not an error.
func (r *PostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return tag.RowsAffected() > 0, nil
}

// likeEscaper makes the search term match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause returns the WHERE clause and its single argument for a
// case-insensitive substring match on title or body, or nothing when search
// is empty.
func searchClause(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}

	pattern := "%" + likeEscaper.Replace(search) + "%"
	return ` WHERE (title ILIKE $1 ESCAPE '\' OR body ILIKE $1 ESCAPE '\')`, []any{pattern}
}
