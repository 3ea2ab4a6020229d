package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type leaseRepository struct {
	db *sql.DB
}

func NewLeaseRepository(db *sql.DB) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

const leaseColumns = `id, application_id, status, document_url, tenant_downloaded_at, landlord_downloaded_at, tenant_approved_at, landlord_approved_at,
	tenant_signed_at, landlord_signed_at, COALESCE(envelope_id, ''), envelope_sent_at, signed_at, created_on, updated_on`

func scanLease(row rowScanner) (*domain.LeaseAgreement, error) {
	l := &domain.LeaseAgreement{}
	err := row.Scan(&l.ID, &l.ApplicationID, &l.Status, &l.DocumentURL, &l.TenantDownloadedAt, &l.LandlordDownloadedAt, &l.TenantApprovedAt, &l.LandlordApprovedAt,
		&l.TenantSignedAt, &l.LandlordSignedAt, &l.EnvelopeID, &l.EnvelopeSentAt, &l.SignedAt, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// nullString stores empty envelope ids as NULL so the unique index ignores them.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *leaseRepository) Create(ctx context.Context, l *domain.LeaseAgreement) error {
	query := `INSERT INTO lease_agreements (application_id, status, document_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	l.CreatedOn = now
	l.UpdatedOn = now
	logger.DatabaseCall("INSERT", "lease_agreements", "applicationID", l.ApplicationID)
	err := r.db.QueryRowContext(ctx, query, l.ApplicationID, l.Status, l.DocumentURL, l.CreatedOn, l.UpdatedOn).Scan(&l.ID)
	logger.DatabaseResult("INSERT", 1, err, "leaseID", l.ID)
	return mapError(err)
}

func (r *leaseRepository) GetByApplication(ctx context.Context, applicationID int32) (*domain.LeaseAgreement, error) {
	query := `SELECT ` + leaseColumns + ` FROM lease_agreements WHERE application_id = $1`
	l, err := scanLease(r.db.QueryRowContext(ctx, query, applicationID))
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *leaseRepository) GetByEnvelope(ctx context.Context, envelopeID string) (*domain.LeaseAgreement, error) {
	query := `SELECT ` + leaseColumns + ` FROM lease_agreements WHERE envelope_id = $1`
	l, err := scanLease(r.db.QueryRowContext(ctx, query, envelopeID))
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *leaseRepository) Update(ctx context.Context, l *domain.LeaseAgreement, expected domain.LeaseStatus) error {
	query := `UPDATE lease_agreements SET status=$1, document_url=$2, tenant_downloaded_at=$3, landlord_downloaded_at=$4, tenant_approved_at=$5, landlord_approved_at=$6,
	          tenant_signed_at=$7, landlord_signed_at=$8, envelope_id=$9, envelope_sent_at=$10, signed_at=$11, updated_on=$12
	          WHERE id=$13 AND status=$14`
	l.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "lease_agreements", "leaseID", l.ID, "from", expected, "to", l.Status)
	res, err := r.db.ExecContext(ctx, query, l.Status, l.DocumentURL, l.TenantDownloadedAt, l.LandlordDownloadedAt, l.TenantApprovedAt, l.LandlordApprovedAt,
		l.TenantSignedAt, l.LandlordSignedAt, nullString(l.EnvelopeID), l.EnvelopeSentAt, l.SignedAt, l.UpdatedOn, l.ID, expected)
	return expectOne(res, err)
}

func (r *leaseRepository) ListStale(ctx context.Context, statuses []domain.LeaseStatus, updatedBefore time.Time) ([]domain.LeaseAgreement, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	query := `SELECT ` + leaseColumns + ` FROM lease_agreements WHERE status = ANY($1) AND updated_on < $2 ORDER BY updated_on`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names), updatedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.LeaseAgreement
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, *l)
	}
	return leases, rows.Err()
}
