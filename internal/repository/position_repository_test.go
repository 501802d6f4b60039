package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// ============================================================
// PositionRepository Tests
// ============================================================

func TestPositionRepositoryGetActive(t *testing.T) {
	now := time.Now()
	sl := 49000.0

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectCount int
		expectError bool
	}{
		{
			name: "two active positions",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "account_id", "exchange_instrument_id", "symbol", "quantity", "average_entry_price", "initial_stop_loss", "updated_at"}).
					AddRow(7, 1, 3, "BTC/USDT", 0.5, 50000.0, &sl, now).
					AddRow(9, 1, 4, "ETH/USDT", -2.0, 3000.0, nil, now)
				mock.ExpectQuery(`SELECT .+ FROM positions p JOIN exchange_instruments ei`).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			expectCount: 2,
		},
		{
			name: "no active positions",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM positions p JOIN exchange_instruments ei`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "exchange_instrument_id", "symbol", "quantity", "average_entry_price", "initial_stop_loss", "updated_at"}))
			},
			expectCount: 0,
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM positions p JOIN exchange_instruments ei`).
					WithArgs(int64(1)).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
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

			repo := NewPositionRepository(db)
			positions, err := repo.GetActive(context.Background(), 1)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if len(positions) != tt.expectCount {
					t.Errorf("expected %d positions, got %d", tt.expectCount, len(positions))
				}
				if tt.expectCount == 2 {
					if !positions[0].IsLong() {
						t.Error("expected first position to be long")
					}
					if positions[1].IsLong() {
						t.Error("expected second position to be short")
					}
					if positions[0].InitialStopLoss == nil || *positions[0].InitialStopLoss != sl {
						t.Error("initial stop loss not scanned correctly")
					}
					if positions[1].InitialStopLoss != nil {
						t.Error("expected nil initial stop loss for second position")
					}
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestPositionRepositoryCountActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM positions WHERE quantity != 0`).
		WillReturnRows(rows)

	repo := NewPositionRepository(db)
	count, err := repo.CountActive(context.Background())

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count=3, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPositionRepositoryGrossExposure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(31000.0)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ABS\(quantity \* average_entry_price\)\), 0\) FROM positions`).
		WillReturnRows(rows)

	repo := NewPositionRepository(db)
	exposure, err := repo.GrossExposure(context.Background())

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if exposure != 31000 {
		t.Errorf("expected exposure=31000, got %v", exposure)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
