package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.ApplicationRepository
	repository.LeaseRepository
	repository.CommentRepository
	repository.PaymentRepository
	repository.EscalationRepository
	repository.TicketRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		PropertyRepository:     NewPropertyRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		LeaseRepository:        NewLeaseRepository(db),
		CommentRepository:      NewCommentRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		EscalationRepository:   NewEscalationRepository(db),
		TicketRepository:       NewTicketRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

const uniqueViolation = "23505"

// mapError converts driver errors to domain sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	}
	return err
}

// expectOne turns a guarded UPDATE that touched nothing into a conflict.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: record changed or missing", domain.ErrConflict)
	}
	return nil
}

// where accumulates AND conditions with positional arguments.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the suffix.
func (w *where) page(page, pageSize int32) string {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	w.args = append(w.args, pageSize, (page-1)*pageSize)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
