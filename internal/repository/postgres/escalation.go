package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type escalationRepository struct {
	db *sql.DB
}

func NewEscalationRepository(db *sql.DB) repository.EscalationRepository {
	return &escalationRepository{db: db}
}

const escalationColumns = `id, payment_id, property_id, landlord_id, tenant_id, reason, description, status, resolution, assigned_admin_id,
	admin_notes, payment_history, created_on, updated_on`

func scanEscalation(row rowScanner) (*domain.Escalation, error) {
	e := &domain.Escalation{}
	var notes, history []byte
	err := row.Scan(&e.ID, &e.PaymentID, &e.PropertyID, &e.LandlordID, &e.TenantID, &e.Reason, &e.Description, &e.Status, &e.Resolution, &e.AssignedAdminID,
		&notes, &history, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	e.AdminNotes = []domain.AdminNote{}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &e.AdminNotes); err != nil {
			return nil, fmt.Errorf("decode admin notes: %w", err)
		}
	}
	e.PaymentHistory = []domain.PaymentSnapshot{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &e.PaymentHistory); err != nil {
			return nil, fmt.Errorf("decode payment history: %w", err)
		}
	}
	return e, nil
}

func (r *escalationRepository) queryEscalations(ctx context.Context, query string, args ...interface{}) ([]domain.Escalation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var escalations []domain.Escalation
	for rows.Next() {
		e, err := scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		escalations = append(escalations, *e)
	}
	return escalations, rows.Err()
}

func (r *escalationRepository) Create(ctx context.Context, e *domain.Escalation) error {
	if e.AdminNotes == nil {
		e.AdminNotes = []domain.AdminNote{}
	}
	if e.PaymentHistory == nil {
		e.PaymentHistory = []domain.PaymentSnapshot{}
	}
	notes, err := json.Marshal(e.AdminNotes)
	if err != nil {
		return err
	}
	history, err := json.Marshal(e.PaymentHistory)
	if err != nil {
		return err
	}

	query := `INSERT INTO escalations (payment_id, property_id, landlord_id, tenant_id, reason, description, status, admin_notes, payment_history, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	e.CreatedOn = now
	e.UpdatedOn = now
	logger.DatabaseCall("INSERT", "escalations", "paymentID", e.PaymentID, "landlordID", e.LandlordID)
	err = r.db.QueryRowContext(ctx, query, e.PaymentID, e.PropertyID, e.LandlordID, e.TenantID, e.Reason, e.Description, e.Status, notes, history, e.CreatedOn, e.UpdatedOn).Scan(&e.ID)
	logger.DatabaseResult("INSERT", 1, err, "escalationID", e.ID)
	return mapError(err)
}

func (r *escalationRepository) GetByID(ctx context.Context, id int32) (*domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations WHERE id = $1`
	e, err := scanEscalation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// Update writes status fields only; notes go through AppendNote.
func (r *escalationRepository) Update(ctx context.Context, e *domain.Escalation, expected domain.EscalationStatus) error {
	query := `UPDATE escalations SET status=$1, resolution=$2, assigned_admin_id=$3, updated_on=$4 WHERE id=$5 AND status=$6`
	e.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "escalations", "escalationID", e.ID, "from", expected, "to", e.Status)
	res, err := r.db.ExecContext(ctx, query, e.Status, e.Resolution, e.AssignedAdminID, e.UpdatedOn, e.ID, expected)
	return expectOne(res, err)
}

// AppendNote adds a note atomically. Closed escalations are left untouched.
func (r *escalationRepository) AppendNote(ctx context.Context, id int32, note domain.AdminNote) error {
	data, err := json.Marshal([]domain.AdminNote{note})
	if err != nil {
		return err
	}
	query := `UPDATE escalations SET admin_notes = admin_notes || $1::jsonb, updated_on = $2 WHERE id = $3 AND status <> 'closed'`
	logger.DatabaseCall("UPDATE", "escalations", "escalationID", id, "op", "append_note")
	res, err := r.db.ExecContext(ctx, query, data, time.Now(), id)
	return expectOne(res, err)
}

func (r *escalationRepository) List(ctx context.Context, f domain.EscalationFilter) ([]domain.Escalation, int32, error) {
	w := &where{}
	if f.LandlordID != 0 {
		w.add("landlord_id = $%d", f.LandlordID)
	}
	if f.TenantID != 0 {
		w.add("tenant_id = $%d", f.TenantID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM escalations`+w.String(), w.args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + escalationColumns + ` FROM escalations` + w.String() + ` ORDER BY created_on DESC`
	query += w.page(f.Page, f.PageSize)
	escalations, err := r.queryEscalations(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return escalations, count, nil
}

func (r *escalationRepository) HasOpenForPayment(ctx context.Context, paymentID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM escalations WHERE payment_id = $1 AND status IN ('pending', 'in_review'))`
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(&exists)
	return exists, err
}

func (r *escalationRepository) ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations WHERE status = 'pending' AND created_on < $1 ORDER BY created_on`
	return r.queryEscalations(ctx, query, createdBefore)
}
