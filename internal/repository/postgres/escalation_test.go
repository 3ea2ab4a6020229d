package postgres_test

import (
	"context"
	"testing"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var escalationCols = []string{"id", "payment_id", "property_id", "landlord_id", "tenant_id", "reason", "description", "status", "resolution", "assigned_admin_id",
	"admin_notes", "payment_history", "created_on", "updated_on"}

func TestEscalationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEscalationRepository(db)
	e := &domain.Escalation{PaymentID: 21, PropertyID: 3, LandlordID: 7, TenantID: 1, Reason: domain.EscalationReasonMissedPayment, Status: domain.EscalationStatusPending}

	mock.ExpectQuery("INSERT INTO escalations").
		WithArgs(int32(21), int32(3), int32(7), int32(1), domain.EscalationReasonMissedPayment, "", domain.EscalationStatusPending, []byte("[]"), []byte("[]"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err = repo.Create(context.Background(), e)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), e.ID)
	assert.NotNil(t, e.AdminNotes)
}

func TestEscalationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEscalationRepository(db)

	t.Run("Decodes notes and history", func(t *testing.T) {
		notes := []byte(`[{"author_id":99,"note":"called tenant","created_on":"2026-10-01T10:00:00Z"}]`)
		history := []byte(`[{"payment_id":21,"amount_cents":150000,"status":"overdue","due_date":"2026-09-01T00:00:00Z"}]`)
		rows := sqlmock.NewRows(escalationCols).
			AddRow(2, 21, 3, 7, 1, "missed_payment", "", "in_review", "", 99, notes, history, time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM escalations WHERE id = \\$1").
			WithArgs(int32(2)).
			WillReturnRows(rows)

		e, err := repo.GetByID(context.Background(), 2)
		assert.NoError(t, err)
		assert.Equal(t, domain.EscalationStatusInReview, e.Status)
		assert.Len(t, e.AdminNotes, 1)
		assert.Equal(t, "called tenant", e.AdminNotes[0].Note)
		assert.Len(t, e.PaymentHistory, 1)
		if assert.NotNil(t, e.AssignedAdminID) {
			assert.Equal(t, int32(99), *e.AssignedAdminID)
		}
	})

	t.Run("Corrupt notes", func(t *testing.T) {
		rows := sqlmock.NewRows(escalationCols).
			AddRow(3, 21, 3, 7, 1, "missed_payment", "", "pending", "", nil, []byte(`{bad`), []byte(`[]`), time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM escalations").
			WithArgs(int32(3)).
			WillReturnRows(rows)

		_, err := repo.GetByID(context.Background(), 3)
		assert.Error(t, err)
	})
}

func TestEscalationRepository_AppendNote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEscalationRepository(db)
	note := domain.AdminNote{AuthorID: 99, Note: "waiting on bank", CreatedOn: time.Now()}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE escalations SET admin_notes = admin_notes \\|\\| \\$1::jsonb").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AppendNote(context.Background(), 2, note))
	})

	t.Run("Closed escalation", func(t *testing.T) {
		mock.ExpectExec("UPDATE escalations SET admin_notes").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AppendNote(context.Background(), 4, note)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
