package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"riskguard/internal/models"
)

// ============================================================
// AlertRepository Tests
// ============================================================

func TestAlertRepositoryCreate(t *testing.T) {
	payload := []byte(`{"symbol":"BTC/USDT","side":"buy","price":50000}`)

	tests := []struct {
		name        string
		alert       *models.InboundAlert
		mockSetup   func(mock sqlmock.Sqlmock)
		expectError error
	}{
		{
			name: "success",
			alert: &models.InboundAlert{
				Source:    "tradingview",
				DedupeKey: "tv-key-1",
				Payload:   payload,
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO inbound_alerts`).
					WithArgs("tradingview", "tv-key-1", payload, models.AlertStatusReceived, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			},
			expectError: nil,
		},
		{
			name: "duplicate delivery",
			alert: &models.InboundAlert{
				Source:    "tradingview",
				DedupeKey: "tv-key-1",
				Payload:   payload,
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO inbound_alerts`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "inbound_alerts_dedupe_key_key"})
			},
			expectError: ErrDuplicateAlert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.mockSetup(mock)

			repo := NewAlertRepository(db)
			err = repo.Create(context.Background(), tt.alert)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected error %v, got %v", tt.expectError, err)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if tt.alert.ID != 1 {
					t.Errorf("expected ID=1, got %d", tt.alert.ID)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestAlertRepositoryUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE inbound_alerts`).
		WithArgs(models.AlertStatusParsed, "", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAlertRepository(db)
	err = repo.UpdateStatus(context.Background(), 1, models.AlertStatusParsed, "")

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
