package post

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/devconnect-api/internal/database"
)

// Repository handles post persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a post owned by accountID
func (r *Repository) Create(ctx context.Context, accountID uuid.UUID, text, name string) (*Post, error) {
	dbPost := &database.Post{
		ID:        uuid.New(),
		AccountID: accountID,
		Text:      text,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := r.db.NewInsert().Model(dbPost).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return mapDBPostToModel(dbPost), nil
}

// ListByAccount returns an account's posts, newest first
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Post, error) {
	var rows []database.Post
	err := r.db.NewSelect().
		Model(&rows).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, mapDBPostToModel(&rows[i]))
	}
	return posts, nil
}

// DeleteByAccount removes every post owned by accountID
func (r *Repository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.Post)(nil)).
		Where("account_id = ?", accountID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete posts: %w", err)
	}

	return nil
}

func mapDBPostToModel(dbp *database.Post) *Post {
	return &Post{
		ID:        dbp.ID,
		AccountID: dbp.AccountID,
		Text:      dbp.Text,
		Name:      dbp.Name,
		CreatedAt: dbp.CreatedAt,
	}
}
