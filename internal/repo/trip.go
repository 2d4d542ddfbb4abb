// Package repo contains all storage access logic for the GlobeTrotter API.
// Each resource has its own interface with Postgres, SQLite and in-memory
// implementations. No business logic lives here, only persistence and
// document mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MutateFunc edits a trip in place. Returning an error aborts the write and
// the error is passed back to the caller unchanged.
type MutateFunc func(trip *domain.Trip) error

// TripRepo defines the persistence operations for the trip aggregate.
// A trip and its whole city/day/activity tree is stored as one document.
// The service layer depends on this interface, not on a concrete backend.
type TripRepo interface {
	// Create inserts a new trip document. The caller assigns the ID.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip by ID.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// GetByShareToken retrieves the trip currently holding token.
	// Returns domain.ErrNotFound if no trip holds it.
	GetByShareToken(ctx context.Context, token string) (domain.Trip, error)

	// ListByOwner returns every trip owned by ownerID in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error)

	// Update loads the trip, applies fn and writes the result back as one
	// atomic read-modify-write. Returns domain.ErrNotFound if the trip does
	// not exist and domain.ErrConflict if the new share token is taken.
	Update(ctx context.Context, id string, fn MutateFunc) (domain.Trip, error)

	// Delete removes a trip and everything nested in it.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, owner_user_id, share_token, is_public, doc, created_at, updated_at)
		VALUES (@id, @owner_user_id, @share_token, @is_public, @doc, @created_at, @updated_at)`

	args, err := tripArgs(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	args["created_at"] = trip.CreatedAt

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapPgError(err))
	}
	return trip, nil
}

// GetByID retrieves a trip document by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	const q = `SELECT doc FROM trips WHERE id = @id`

	trip, err := scanTripDoc(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trip, nil
}

// GetByShareToken retrieves a trip document by its share token.
func (r *pgTripRepo) GetByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT doc FROM trips WHERE share_token = @token`

	trip, err := scanTripDoc(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByShareToken: %w", err)
	}
	return trip, nil
}

// ListByOwner returns the owner's trips in insertion order.
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	const q = `
		SELECT doc
		FROM trips
		WHERE owner_user_id = @owner_user_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTripDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// Update locks the row with SELECT ... FOR UPDATE, applies fn, and writes the
// document back in the same transaction.
func (r *pgTripRepo) Update(ctx context.Context, id string, fn MutateFunc) (domain.Trip, error) {
	const sel = `SELECT doc FROM trips WHERE id = @id FOR UPDATE`
	const upd = `
		UPDATE trips
		SET owner_user_id = @owner_user_id,
		    share_token   = @share_token,
		    is_public     = @is_public,
		    doc           = @doc,
		    updated_at    = @updated_at
		WHERE id = @id`

	var result domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		trip, err := scanTripDoc(tx.QueryRow(ctx, sel, pgx.NamedArgs{"id": id}))
		if err != nil {
			return err
		}
		if err := fn(&trip); err != nil {
			return err
		}
		args, err := tripArgs(trip)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upd, args); err != nil {
			return mapPgError(err)
		}
		result = trip
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs maps the indexed columns and the JSON document of trip to named
// query arguments.
func tripArgs(trip domain.Trip) (pgx.NamedArgs, error) {
	doc, err := json.Marshal(trip)
	if err != nil {
		return nil, fmt.Errorf("marshal trip: %w", err)
	}
	return pgx.NamedArgs{
		"id":            trip.ID,
		"owner_user_id": trip.OwnerUserID,
		"share_token":   trip.ShareToken, // nil becomes NULL
		"is_public":     trip.IsPublic,
		"doc":           string(doc),
		"updated_at":    trip.UpdatedAt,
	}, nil
}

// scanner is satisfied by pgx.Row, pgx.Rows and *sql.Row, allowing the scan
// helpers to be reused for both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// scanTripDoc reads a single doc column and decodes it into a domain.Trip.
func scanTripDoc(s scanner) (domain.Trip, error) {
	var raw []byte
	if err := s.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return decodeTrip(raw)
}

func decodeTrip(raw []byte) (domain.Trip, error) {
	var t domain.Trip
	if err := json.Unmarshal(raw, &t); err != nil {
		return domain.Trip{}, fmt.Errorf("decode trip document: %w", err)
	}
	return t, nil
}

// mapPgError translates unique violations into domain.ErrConflict.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
