package postgres

import (
	"context"
	"database/sql"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, application_id, property_id, tenant_id, landlord_id, amount_cents, status, method, due_date, paid_date, notes, created_on, updated_on`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.ApplicationID, &p.PropertyID, &p.TenantID, &p.LandlordID, &p.AmountCents, &p.Status, &p.Method, &p.DueDate, &p.PaidDate, &p.Notes, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) queryPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (application_id, property_id, tenant_id, landlord_id, amount_cents, status, method, due_date, paid_date, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	p.CreatedOn = now
	p.UpdatedOn = now
	logger.DatabaseCall("INSERT", "payments", "propertyID", p.PropertyID, "tenantID", p.TenantID, "amountCents", p.AmountCents)
	err := r.db.QueryRowContext(ctx, query, p.ApplicationID, p.PropertyID, p.TenantID, p.LandlordID, p.AmountCents, p.Status, p.Method, p.DueDate, p.PaidDate, p.Notes, p.CreatedOn, p.UpdatedOn).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "paymentID", p.ID)
	return mapError(err)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment, expected domain.PaymentStatus) error {
	query := `UPDATE payments SET status=$1, method=$2, paid_date=$3, notes=$4, updated_on=$5 WHERE id=$6 AND status=$7`
	p.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "payments", "paymentID", p.ID, "from", expected, "to", p.Status)
	res, err := r.db.ExecContext(ctx, query, p.Status, p.Method, p.PaidDate, p.Notes, p.UpdatedOn, p.ID, expected)
	return expectOne(res, err)
}

func (r *paymentRepository) List(ctx context.Context, f domain.PaymentFilter) ([]domain.Payment, int32, error) {
	w := &where{}
	if f.TenantID != 0 {
		w.add("tenant_id = $%d", f.TenantID)
	}
	if f.LandlordID != 0 {
		w.add("landlord_id = $%d", f.LandlordID)
	}
	if f.PropertyID != 0 {
		w.add("property_id = $%d", f.PropertyID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments`+w.String(), w.args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments` + w.String() + ` ORDER BY due_date DESC, id DESC`
	query += w.page(f.Page, f.PageSize)
	payments, err := r.queryPayments(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, count, nil
}

func (r *paymentRepository) ListByTenantProperty(ctx context.Context, tenantID, propertyID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND property_id = $2 ORDER BY due_date`
	return r.queryPayments(ctx, query, tenantID, propertyID)
}

// MarkOverdue flips pending payments due before asOf to overdue and returns them.
func (r *paymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Payment, error) {
	query := `UPDATE payments SET status = 'overdue', updated_on = NOW()
	          WHERE status = 'pending' AND due_date < $1
	          RETURNING ` + paymentColumns
	logger.DatabaseCall("UPDATE", "payments", "asOf", asOf)
	payments, err := r.queryPayments(ctx, query, asOf)
	logger.DatabaseResult("UPDATE", int64(len(payments)), err)
	return payments, err
}

func (r *paymentRepository) ListOverdue(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'overdue' ORDER BY tenant_id, due_date`
	return r.queryPayments(ctx, query)
}
