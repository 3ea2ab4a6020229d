package postgres

import (
	"context"
	"database/sql"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, landlord_id, title, slug, description, address, city, monthly_rent_cents, bedrooms, bathrooms, status, moderation_note, created_on, updated_on`

func scanProperty(row rowScanner) (*domain.Property, error) {
	p := &domain.Property{}
	err := row.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Slug, &p.Description, &p.Address, &p.City, &p.MonthlyRentCents, &p.Bedrooms, &p.Bathrooms, &p.Status, &p.ModerationNote, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `INSERT INTO properties (landlord_id, title, slug, description, address, city, monthly_rent_cents, bedrooms, bathrooms, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	p.CreatedOn = now
	p.UpdatedOn = now
	logger.DatabaseCall("INSERT", "properties", "landlordID", p.LandlordID, "slug", p.Slug)
	err := r.db.QueryRowContext(ctx, query, p.LandlordID, p.Title, p.Slug, p.Description, p.Address, p.City, p.MonthlyRentCents, p.Bedrooms, p.Bathrooms, p.Status, p.CreatedOn, p.UpdatedOn).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "propertyID", p.ID)
	return mapError(err)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property, expected domain.PropertyStatus) error {
	query := `UPDATE properties SET title=$1, description=$2, address=$3, city=$4, monthly_rent_cents=$5, bedrooms=$6, bathrooms=$7, status=$8, moderation_note=$9, updated_on=$10
	          WHERE id=$11 AND status=$12`
	p.UpdatedOn = time.Now()
	logger.DatabaseCall("UPDATE", "properties", "propertyID", p.ID, "status", p.Status)
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.Address, p.City, p.MonthlyRentCents, p.Bedrooms, p.Bathrooms, p.Status, p.ModerationNote, p.UpdatedOn, p.ID, expected)
	return expectOne(res, err)
}

func (r *propertyRepository) List(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, int32, error) {
	w := &where{}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.LandlordID != 0 {
		w.add("landlord_id = $%d", f.LandlordID)
	}
	if f.City != "" {
		w.add("LOWER(city) = LOWER($%d)", f.City)
	}
	if f.MaxRentCents > 0 {
		w.add("monthly_rent_cents <= $%d", f.MaxRentCents)
	}
	if f.MinBedrooms > 0 {
		w.add("bedrooms >= $%d", f.MinBedrooms)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM properties`+w.String(), w.args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + propertyColumns + ` FROM properties` + w.String() + ` ORDER BY created_on DESC`
	query += w.page(f.Page, f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		properties = append(properties, *p)
	}
	return properties, count, rows.Err()
}

func (r *propertyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM properties WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}
