package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// sqlTripRepo is the database/sql implementation of TripRepo used with the
// embedded SQLite driver. Timestamps are stored as RFC 3339 text.
type sqlTripRepo struct {
	db *sql.DB
}

// NewSQLTripRepo constructs a TripRepo over a *sql.DB opened with the
// "sqlite" driver. The pool should be limited to one open connection so that
// Update transactions are serialised.
func NewSQLTripRepo(db *sql.DB) TripRepo {
	return &sqlTripRepo{db: db}
}

func (r *sqlTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, owner_user_id, share_token, is_public, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	doc, err := json.Marshal(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Create: marshal trip: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q,
		trip.ID, trip.OwnerUserID, trip.ShareToken, trip.IsPublic, string(doc),
		formatTime(trip.CreatedAt), formatTime(trip.UpdatedAt))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Create: %w", mapSQLiteError(err))
	}
	return trip, nil
}

func (r *sqlTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	const q = `SELECT doc FROM trips WHERE id = ?`

	trip, err := scanSQLTripDoc(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.GetByID: %w", err)
	}
	return trip, nil
}

func (r *sqlTripRepo) GetByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT doc FROM trips WHERE share_token = ?`

	trip, err := scanSQLTripDoc(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.GetByShareToken: %w", err)
	}
	return trip, nil
}

func (r *sqlTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	const q = `SELECT doc FROM trips WHERE owner_user_id = ? ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("repo.sqlTripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanSQLTripDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.sqlTripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.sqlTripRepo.ListByOwner: rows: %w", err)
	}
	return trips, nil
}

func (r *sqlTripRepo) Update(ctx context.Context, id string, fn MutateFunc) (domain.Trip, error) {
	const sel = `SELECT doc FROM trips WHERE id = ?`
	const upd = `
		UPDATE trips
		SET owner_user_id = ?, share_token = ?, is_public = ?, doc = ?, updated_at = ?
		WHERE id = ?`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	trip, err := scanSQLTripDoc(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: %w", err)
	}
	if err := fn(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: %w", err)
	}

	doc, err := json.Marshal(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: marshal trip: %w", err)
	}
	_, err = tx.ExecContext(ctx, upd,
		trip.OwnerUserID, trip.ShareToken, trip.IsPublic, string(doc), formatTime(trip.UpdatedAt), id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: %w", mapSQLiteError(err))
	}
	if err := tx.Commit(); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.sqlTripRepo.Update: commit: %w", err)
	}
	return trip, nil
}

func (r *sqlTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repo.sqlTripRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo.sqlTripRepo.Delete: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo.sqlTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// sqlUserRepo is the database/sql implementation of UserRepo.
type sqlUserRepo struct {
	db *sql.DB
}

// NewSQLUserRepo constructs a UserRepo over a *sql.DB opened with the
// "sqlite" driver.
func NewSQLUserRepo(db *sql.DB) UserRepo {
	return &sqlUserRepo{db: db}
}

func (r *sqlUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (id, email, name, password_hash, avatar, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Avatar, formatTime(user.CreatedAt))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.sqlUserRepo.Create: %w", mapSQLiteError(err))
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	u, err := scanSQLUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.sqlUserRepo.GetByID: %w", err)
	}
	return u, nil
}

func (r *sqlUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	u, err := scanSQLUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.sqlUserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *sqlUserRepo) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name = ?, avatar = ? WHERE id = ?`,
		user.Name, user.Avatar, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.sqlUserRepo.UpdateProfile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.User{}, fmt.Errorf("repo.sqlUserRepo.UpdateProfile: %w", domain.ErrNotFound)
	}
	return r.GetByID(ctx, user.ID)
}

func scanSQLTripDoc(s scanner) (domain.Trip, error) {
	var raw string
	if err := s.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return decodeTrip([]byte(raw))
}

func scanSQLUser(s scanner) (domain.User, error) {
	var (
		u       domain.User
		avatar  sql.NullString
		created string
	)
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &avatar, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	u.CreatedAt = t.UTC()
	return u, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// mapSQLiteError translates UNIQUE and PRIMARY KEY violations into
// domain.ErrConflict.
func mapSQLiteError(err error) error {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", domain.ErrConflict, sqErr.Error())
		}
	}
	return err
}
