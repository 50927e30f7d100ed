package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/coforge-registration/models"
	"github.com/lib/pq"
)

var errNoRowInserted = errors.New("insert did not report exactly one row")

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore пишет регистрации напрямую в Postgres. С nil db хранилище не готово.
func NewPostgresStore(db *sql.DB) DataStore {
	return &postgresStore{db: db}
}

func (s *postgresStore) Ready() bool {
	return s.db != nil
}

func (s *postgresStore) Insert(ctx context.Context, table string, rec *models.Registration) error {
	if !s.Ready() {
		return ErrStoreNotReady
	}
	if table == "" {
		return ErrInvalidTable
	}

	query := `
		INSERT INTO ` + pq.QuoteIdentifier(table) + ` (
			leader_name, leader_college, leader_phone, leader_email,
			co_leader_name, co_leader_college, co_leader_phone, co_leader_email,
			community, community_other, source, eligibility_confirmed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	result, err := s.db.ExecContext(ctx, query,
		rec.LeaderName,
		rec.LeaderCollege,
		rec.LeaderPhone,
		rec.LeaderEmail,
		rec.CoLeaderName,
		rec.CoLeaderCollege,
		rec.CoLeaderPhone,
		rec.CoLeaderEmail,
		rec.Community,
		rec.CommunityOther,
		rec.Source,
		rec.EligibilityConfirmed,
	)
	if err != nil {
		return storeErrorFromPQ(err)
	}
	return insertedOne(result)
}

func insertedOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("%w (got %d)", errNoRowInserted, rowsAffected)
	}
	return nil
}

func storeErrorFromPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreError{
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Details: pqErr.Detail,
			Hint:    pqErr.Hint,
		}
	}
	return fmt.Errorf("failed to insert registration: %w", err)
}
