package postgres

import (
	"context"
	"database/sql"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, property_id, tenant_id, landlord_id, status, message, monthly_income_cents, monthly_debt_cents, tenant_scoring,
	viewing_date, rejection_reason, lease_start_date, lease_start_set_by, lease_start_approved_by, created_on, updated_on`

func scanApplication(row rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.PropertyID, &a.TenantID, &a.LandlordID, &a.Status, &a.Message, &a.MonthlyIncomeCents, &a.MonthlyDebtCents, &a.TenantScoring,
		&a.ViewingDate, &a.RejectionReason, &a.LeaseStartDate.Date, &a.LeaseStartDate.SetBy, &a.LeaseStartDate.ApprovedBy, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO applications (property_id, tenant_id, landlord_id, status, message, monthly_income_cents, monthly_debt_cents, tenant_scoring, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	logger.DatabaseCall("INSERT", "applications", "propertyID", a.PropertyID, "tenantID", a.TenantID)
	err := r.db.QueryRowContext(ctx, query, a.PropertyID, a.TenantID, a.LandlordID, a.Status, a.Message, a.MonthlyIncomeCents, a.MonthlyDebtCents, a.TenantScoring, a.CreatedOn, a.UpdatedOn).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", a.ID)
	return mapError(err)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *applicationRepository) Update(ctx context.Context, a *domain.Application, expected domain.ApplicationStatus) error {
	query := `UPDATE applications SET status=$1, viewing_date=$2, rejection_reason=$3, lease_start_date=$4, lease_start_set_by=$5, lease_start_approved_by=$6, updated_on=$7
	          WHERE id=$8 AND status=$9`
	a.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "applications", "applicationID", a.ID, "status", a.Status)
	res, err := r.db.ExecContext(ctx, query, a.Status, a.ViewingDate, a.RejectionReason, a.LeaseStartDate.Date, a.LeaseStartDate.SetBy, a.LeaseStartDate.ApprovedBy, a.UpdatedOn, a.ID, expected)
	return expectOne(res, err)
}

func (r *applicationRepository) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int32, error) {
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
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications`+w.String(), w.args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + w.String() + ` ORDER BY created_on DESC`
	query += w.page(f.Page, f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *a)
	}
	return apps, count, rows.Err()
}

func (r *applicationRepository) HasActive(ctx context.Context, tenantID, propertyID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE tenant_id = $1 AND property_id = $2 AND status IN ('pending', 'viewing', 'approved'))`
	err := r.db.QueryRowContext(ctx, query, tenantID, propertyID).Scan(&exists)
	return exists, err
}

func (r *applicationRepository) FindApproved(ctx context.Context, tenantID, propertyID int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE tenant_id = $1 AND property_id = $2 AND status = 'approved' ORDER BY updated_on DESC LIMIT 1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, tenantID, propertyID))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}
