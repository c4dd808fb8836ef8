package crdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

const holdColumns = `id, show_id, show_request_id, requested_by_id, requested_by_side, responded_by_id, duration_hours,
	reason, custom_message, status, requested_at, responded_at, starts_at, expires_at`

func scanHold(row pgx.Row) (domain.HoldRequest, error) {
	var h domain.HoldRequest
	err := row.Scan(&h.ID, &h.ShowID, &h.ShowRequestID, &h.RequestedByID, &h.RequestedBy, &h.RespondedByID, &h.Duration,
		&h.Reason, &h.CustomMessage, &h.Status, &h.RequestedAt, &h.RespondedAt, &h.StartsAt, &h.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return h, domain.ErrNotFound
	}
	return h, err
}

func collectHolds(rows pgx.Rows) ([]domain.HoldRequest, error) {
	defer rows.Close()
	var out []domain.HoldRequest
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repository) CreateHold(ctx context.Context, h domain.HoldRequest, ev booking.Event) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO hold_requests (`+holdColumns+`, document_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, h.ID, h.ShowID, h.ShowRequestID, h.RequestedByID, h.RequestedBy, h.RespondedByID, h.Duration,
			h.Reason, h.CustomMessage, h.Status, h.RequestedAt, h.RespondedAt, h.StartsAt, h.ExpiresAt,
			h.DocumentID())
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrHoldExists
			}
			return err
		}
		return r.insertEvent(ctx, tx, ev)
	})
}

func (r *Repository) GetHold(ctx context.Context, id uuid.UUID) (domain.HoldRequest, error) {
	return scanHold(r.pool.QueryRow(ctx, `SELECT `+holdColumns+` FROM hold_requests WHERE id = $1`, id))
}

func (r *Repository) ListHolds(ctx context.Context, f booking.HoldFilter) ([]domain.HoldRequest, error) {
	var where []string
	var args []interface{}
	if len(f.DocumentIDs) > 0 {
		args = append(args, uuidArgs(f.DocumentIDs))
		where = append(where, fmt.Sprintf("document_id = ANY($%d::UUID[])", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	query := `SELECT ` + holdColumns + ` FROM hold_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY requested_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	return collectHolds(rows)
}

func (r *Repository) UpdateHold(
	ctx context.Context,
	id uuid.UUID,
	updateFn func(h domain.HoldRequest) (booking.HoldUpdate, error),
) (domain.HoldRequest, error) {
	var updated domain.HoldRequest
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := scanHold(tx.QueryRow(ctx, `
			SELECT `+holdColumns+` FROM hold_requests WHERE id = $1 FOR UPDATE
		`, id))
		if err != nil {
			return err
		}

		upd, err := updateFn(current)
		if err != nil {
			return err
		}
		h := upd.Hold
		_, err = tx.Exec(ctx, `
			UPDATE hold_requests SET
				responded_by_id = $2, status = $3, responded_at = $4, starts_at = $5, expires_at = $6
			WHERE id = $1
		`, id, h.RespondedByID, h.Status, h.RespondedAt, h.StartsAt, h.ExpiresAt)
		if err != nil {
			return err
		}
		if upd.Competing != nil {
			now := upd.Event.OccurredAt
			if now.IsZero() {
				now = time.Now()
			}
			if err := r.setCompetingHoldState(ctx, tx, *upd.Competing, now); err != nil {
				return err
			}
		}
		updated = h
		return r.insertEvent(ctx, tx, upd.Event)
	})
	return updated, err
}

func (r *Repository) DueHolds(ctx context.Context, now time.Time) ([]domain.HoldRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdColumns+` FROM hold_requests
		WHERE status = 'ACTIVE' AND expires_at <= $1
		ORDER BY expires_at ASC
	`, now)
	if err != nil {
		return nil, err
	}
	return collectHolds(rows)
}

// HoldDocument resolves the show or show request a hold targets. A show
// request id that has no legacy row is looked up as a booking opportunity.
func (r *Repository) HoldDocument(ctx context.Context, showID, showRequestID *uuid.UUID) (booking.Document, error) {
	var (
		doc     booking.Document
		venueID *uuid.UUID
		date    time.Time
		err     error
	)
	switch {
	case showID != nil:
		err = r.pool.QueryRow(ctx, `SELECT id, artist_id, venue_id, date FROM shows WHERE id = $1`, *showID).
			Scan(&doc.ID, &doc.Parties.ArtistID, &venueID, &date)
	case showRequestID != nil:
		err = r.pool.QueryRow(ctx, `
			SELECT id, artist_id, venue_id, requested_date FROM show_requests WHERE id = $1
			UNION ALL
			SELECT id, artist_id, venue_id, proposed_date FROM booking_opportunities
			WHERE id = $1 AND deleted_at IS NULL
			LIMIT 1
		`, *showRequestID).Scan(&doc.ID, &doc.Parties.ArtistID, &venueID, &date)
	default:
		return doc, errors.Wrap(domain.ErrInvalidInput, "a show or show request is required")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, errors.Wrap(domain.ErrNotFound, "hold document")
	}
	if err != nil {
		return doc, err
	}
	if venueID != nil {
		doc.Parties.VenueID = *venueID
	}
	doc.Date = civilDate(date)
	return doc, nil
}
