package crdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

const opportunityColumns = `id, artist_id, venue_id, title, proposed_date, initiated_by, initiated_by_id,
	source_type, source_id, status, message,
	financial_offer, performance_details, venue_details, additional_value, hold_state,
	accepted_at, declined_at, declined_reason, cancelled_at, cancellation_reason,
	created_at, updated_at, deleted_at`

type opportunityJSON struct {
	financial, performance, venue, additional []byte
}

func marshalOpportunityJSON(o domain.Opportunity) (opportunityJSON, error) {
	var out opportunityJSON
	var err error
	if out.financial, err = json.Marshal(o.FinancialOffer); err != nil {
		return out, errors.Wrap(err, "marshal financial offer")
	}
	if out.performance, err = json.Marshal(o.PerformanceDetails); err != nil {
		return out, errors.Wrap(err, "marshal performance details")
	}
	if out.venue, err = json.Marshal(o.VenueDetails); err != nil {
		return out, errors.Wrap(err, "marshal venue details")
	}
	if out.additional, err = json.Marshal(o.AdditionalValue); err != nil {
		return out, errors.Wrap(err, "marshal additional value")
	}
	return out, nil
}

func scanOpportunity(row pgx.Row) (domain.Opportunity, error) {
	var o domain.Opportunity
	var date time.Time
	var js opportunityJSON
	err := row.Scan(
		&o.ID, &o.ArtistID, &o.VenueID, &o.Title, &date, &o.InitiatedBy, &o.InitiatedByID,
		&o.SourceType, &o.SourceID, &o.Status, &o.Message,
		&js.financial, &js.performance, &js.venue, &js.additional, &o.HoldState,
		&o.AcceptedAt, &o.DeclinedAt, &o.DeclinedReason, &o.CancelledAt, &o.CancellationReason,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, domain.ErrNotFound
		}
		return o, err
	}
	o.ProposedDate = civilDate(date)
	for _, f := range []struct {
		raw []byte
		dst interface{}
	}{
		{js.financial, &o.FinancialOffer},
		{js.performance, &o.PerformanceDetails},
		{js.venue, &o.VenueDetails},
		{js.additional, &o.AdditionalValue},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return o, errors.Wrapf(err, "decode opportunity %s", o.ID)
		}
	}
	o.ActiveHolds = []domain.HoldSummary{}
	return o, nil
}

func (r *Repository) CreateOpportunity(ctx context.Context, o domain.Opportunity, ev booking.Event) error {
	js, err := marshalOpportunityJSON(o)
	if err != nil {
		return err
	}
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO booking_opportunities (`+opportunityColumns+`)
			VALUES ($1, $2, $3, $4, $5::DATE, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, $24)
		`, o.ID, o.ArtistID, o.VenueID, o.Title, o.ProposedDate.String(), o.InitiatedBy, o.InitiatedByID,
			o.SourceType, o.SourceID, o.Status, o.Message,
			js.financial, js.performance, js.venue, js.additional, o.HoldState,
			o.AcceptedAt, o.DeclinedAt, o.DeclinedReason, o.CancelledAt, o.CancellationReason,
			o.CreatedAt, o.UpdatedAt, o.DeletedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Wrapf(domain.ErrConflict, "opportunity %s already exists", o.ID)
			}
			return err
		}
		return r.insertEvent(ctx, tx, ev)
	})
}

func (r *Repository) GetOpportunity(ctx context.Context, id uuid.UUID) (domain.Opportunity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+opportunityColumns+`
		FROM booking_opportunities WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanOpportunity(row)
}

func (r *Repository) ListOpportunities(ctx context.Context, f booking.OpportunityFilter) ([]domain.Opportunity, error) {
	where := []string{"deleted_at IS NULL"}
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ArtistID != nil {
		where = append(where, "artist_id = "+arg(*f.ArtistID))
	}
	if f.VenueID != nil {
		where = append(where, "venue_id = "+arg(*f.VenueID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if !f.Before.IsZero() {
		where = append(where, "proposed_date < "+arg(f.Before.String())+"::DATE")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+opportunityColumns+`
		FROM booking_opportunities WHERE `+strings.Join(where, " AND ")+`
		ORDER BY proposed_date ASC, created_at ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateOpportunity(
	ctx context.Context,
	id uuid.UUID,
	updateFn func(o domain.Opportunity) (domain.Opportunity, booking.Event, error),
) (domain.Opportunity, error) {
	var updated domain.Opportunity
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := scanOpportunity(tx.QueryRow(ctx, `
			SELECT `+opportunityColumns+`
			FROM booking_opportunities WHERE id = $1 AND deleted_at IS NULL FOR UPDATE
		`, id))
		if err != nil {
			return err
		}

		next, ev, err := updateFn(current)
		if err != nil {
			return err
		}
		js, err := marshalOpportunityJSON(next)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE booking_opportunities SET
				title = $2, proposed_date = $3::DATE, status = $4, message = $5,
				financial_offer = $6, performance_details = $7, venue_details = $8, additional_value = $9,
				hold_state = $10, accepted_at = $11, declined_at = $12, declined_reason = $13,
				cancelled_at = $14, cancellation_reason = $15, updated_at = $16, deleted_at = $17
			WHERE id = $1
		`, id, next.Title, next.ProposedDate.String(), next.Status, next.Message,
			js.financial, js.performance, js.venue, js.additional,
			next.HoldState, next.AcceptedAt, next.DeclinedAt, next.DeclinedReason,
			next.CancelledAt, next.CancellationReason, next.UpdatedAt, next.DeletedAt)
		if err != nil {
			return err
		}
		updated = next
		return r.insertEvent(ctx, tx, ev)
	})
	return updated, err
}

// setCompetingHoldState moves the artist's other open or pending
// opportunities on the document's date to state.
func (r *Repository) setCompetingHoldState(ctx context.Context, tx pgx.Tx, c booking.CompetingState, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE booking_opportunities SET hold_state = $1, updated_at = $2
		WHERE artist_id = $3 AND proposed_date = $4::DATE
			AND status IN ('OPEN', 'PENDING') AND deleted_at IS NULL
			AND id <> $5 AND source_id <> $5
	`, c.State, now, c.Document.Parties.ArtistID, c.Document.Date.String(), c.Document.ID)
	return err
}
