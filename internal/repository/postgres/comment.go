package postgres

import (
	"context"
	"database/sql"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (parent_type, parent_id, author_id, author_role, body, parent_comment_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	c.CreatedOn = time.Now()
	logger.DatabaseCall("INSERT", "comments", "parentType", c.ParentType, "parentID", c.ParentID)
	err := r.db.QueryRowContext(ctx, query, c.ParentType, c.ParentID, c.AuthorID, c.AuthorRole, c.Body, c.ParentCommentID, c.CreatedOn).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "commentID", c.ID)
	return mapError(err)
}

func (r *commentRepository) ListByParent(ctx context.Context, parentType domain.CommentParent, parentID int32) ([]domain.Comment, error) {
	query := `SELECT id, parent_type, parent_id, author_id, author_role, body, parent_comment_id, created_on
	          FROM comments WHERE parent_type = $1 AND parent_id = $2 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, parentType, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ParentType, &c.ParentID, &c.AuthorID, &c.AuthorRole, &c.Body, &c.ParentCommentID, &c.CreatedOn); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
