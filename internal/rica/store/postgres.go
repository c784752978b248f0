// Package store persists registration outcomes and reads the carrier account
// credentials. Both contracts are thin: one fixed-row select, one append-only
// insert. No retries live here; a failure is fatal for the current request.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pavrica/internal/rica/models"
	"pavrica/pkg/platform/sentinel"
)

// PostgresStore implements the credential read and outcome write contracts
// against the pavrica schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FetchCredentials reads the carrier basic-auth pair from the single fixed
// configuration row.
func (s *PostgresStore) FetchCredentials(ctx context.Context) (models.Credentials, error) {
	query := `
		SELECT smartricausername, smartricapassword
		FROM pavrica.tblpavricacredentials
		WHERE id = 1
	`

	var creds models.Credentials
	err := s.db.QueryRowContext(ctx, query).Scan(&creds.Username, &creds.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credentials{}, sentinel.ErrNotFound
		}
		return models.Credentials{}, fmt.Errorf("fetch carrier credentials: %w", err)
	}
	return creds, nil
}

// InsertOutcome appends one registration row. Sub-records are serialized to
// JSON columns; there is no dedup key, duplicate submissions produce
// duplicate rows.
func (s *PostgresStore) InsertOutcome(ctx context.Context, outcome *models.RegistrationOutcome) error {
	if outcome == nil {
		return fmt.Errorf("registration outcome is required")
	}

	idDetails, err := json.Marshal(outcome.IDDetails)
	if err != nil {
		return fmt.Errorf("marshal idDetails: %w", err)
	}
	address, err := json.Marshal(outcome.ResidentialAddress)
	if err != nil {
		return fmt.Errorf("marshal residentialAddress: %w", err)
	}
	network, err := json.Marshal(outcome.Network)
	if err != nil {
		return fmt.Errorf("marshal network: %w", err)
	}
	var businessOwner []byte
	if outcome.BusinessOwnerIDDetails != nil {
		businessOwner, err = json.Marshal(outcome.BusinessOwnerIDDetails)
		if err != nil {
			return fmt.Errorf("marshal businessOwnerIdDetails: %w", err)
		}
	}

	query := `
		INSERT INTO pavrica.tblpavrica (
			"responseCode", "ricaReference", "agentId", "firstName", surname,
			"idDetails", "registrationType", "subscriberId", "last4Iccid",
			"residentialAddress", "previousIdNumber", "previousIdType", network,
			"businessOwnerIdDetails", "altContactNumber", "ricaDate"
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = s.db.ExecContext(ctx, query,
		outcome.ResponseCode,
		outcome.RicaReference,
		outcome.AgentID,
		outcome.FirstName,
		outcome.Surname,
		idDetails,
		outcome.RegistrationType,
		outcome.SubscriberID,
		outcome.Last4Iccid,
		address,
		outcome.PreviousIDNumber,
		outcome.PreviousIDType,
		network,
		businessOwner,
		outcome.AltContactNumber,
		outcome.RicaDate,
	)
	if err != nil {
		return fmt.Errorf("insert registration outcome: %w", err)
	}
	return nil
}
