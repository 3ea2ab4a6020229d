package domain

import (
	"fmt"
	"time"
)

type CommentParent string

const (
	CommentParentLease  CommentParent = "lease"
	CommentParentTicket CommentParent = "ticket"
)

// Comment belongs to a flat thread. Replies reference a top-level comment
// through ParentCommentID; replies to replies are rejected.
type Comment struct {
	ID              int32         `json:"id"`
	ParentType      CommentParent `json:"parent_type"`
	ParentID        int32         `json:"parent_id"`
	AuthorID        int32         `json:"author_id"`
	AuthorRole      UserRole      `json:"author_role"`
	Body            string        `json:"body"`
	ParentCommentID *int32        `json:"parent_comment_id,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
}

// CheckReplyTarget validates that parentCommentID names a top-level comment of thread.
func CheckReplyTarget(thread []Comment, parentCommentID int32) error {
	for _, c := range thread {
		if c.ID != parentCommentID {
			continue
		}
		if c.ParentCommentID != nil {
			return fmt.Errorf("%w: replies can only target top-level comments", ErrValidation)
		}
		return nil
	}
	return fmt.Errorf("%w: parent comment %d not found in thread", ErrValidation, parentCommentID)
}
