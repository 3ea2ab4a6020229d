package postgres

import (
	"context"
	"database/sql"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, property_id, tenant_id, landlord_id, title, description, category, priority, status, created_on, updated_on`

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := row.Scan(&t.ID, &t.PropertyID, &t.TenantID, &t.LandlordID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status, &t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `INSERT INTO tickets (property_id, tenant_id, landlord_id, title, description, category, priority, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	t.CreatedOn = now
	t.UpdatedOn = now
	logger.DatabaseCall("INSERT", "tickets", "propertyID", t.PropertyID, "tenantID", t.TenantID)
	err := r.db.QueryRowContext(ctx, query, t.PropertyID, t.TenantID, t.LandlordID, t.Title, t.Description, t.Category, t.Priority, t.Status, t.CreatedOn, t.UpdatedOn).Scan(&t.ID)
	logger.DatabaseResult("INSERT", 1, err, "ticketID", t.ID)
	return mapError(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int32) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *ticketRepository) Update(ctx context.Context, t *domain.Ticket, expected domain.TicketStatus) error {
	query := `UPDATE tickets SET status=$1, priority=$2, updated_on=$3 WHERE id=$4 AND status=$5`
	t.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "tickets", "ticketID", t.ID, "from", expected, "to", t.Status)
	res, err := r.db.ExecContext(ctx, query, t.Status, t.Priority, t.UpdatedOn, t.ID, expected)
	return expectOne(res, err)
}

func (r *ticketRepository) List(ctx context.Context, f domain.TicketFilter) ([]domain.Ticket, int32, error) {
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
	if f.Priority != "" {
		w.add("priority = $%d", f.Priority)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM tickets`+w.String(), w.args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets` + w.String() + ` ORDER BY created_on DESC`
	query += w.page(f.Page, f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, count, rows.Err()
}
