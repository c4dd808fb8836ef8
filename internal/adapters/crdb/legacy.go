package crdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

// legacyWhere builds the party filter shared by the legacy tables.
func legacyWhere(f booking.LegacyFilter) (string, []interface{}) {
	var where []string
	var args []interface{}
	if f.ArtistID != nil {
		args = append(args, *f.ArtistID)
		where = append(where, fmt.Sprintf("artist_id = $%d", len(args)))
	}
	if f.VenueID != nil {
		args = append(args, *f.VenueID)
		where = append(where, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func queryLegacy[T any](ctx context.Context, r *Repository, query string, f booking.LegacyFilter, scan func(pgx.Rows) (T, error)) ([]T, error) {
	where, args := legacyWhere(f)
	rows, err := r.pool.Query(ctx, strings.Replace(query, "{where}", where, 1), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) ListShows(ctx context.Context, f booking.LegacyFilter) ([]domain.Show, error) {
	return queryLegacy(ctx, r, `
		SELECT id, artist_id, venue_id, title, date, status, guarantee::STRING, capacity, age_restriction, lineup
		FROM shows{where} ORDER BY date
	`, f, func(rows pgx.Rows) (domain.Show, error) {
		var (
			s         domain.Show
			date      time.Time
			guarantee *string
			lineup    []byte
		)
		err := rows.Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.Title, &date, &s.Status, &guarantee, &s.Capacity, &s.AgeLimit, &lineup)
		if err != nil {
			return s, err
		}
		s.Date = civilDate(date)
		if s.Guarantee, err = nullableDecimal(guarantee); err != nil {
			return s, err
		}
		if len(lineup) > 0 {
			if err := json.Unmarshal(lineup, &s.Lineup); err != nil {
				return s, errors.Wrapf(err, "decode lineup of show %s", s.ID)
			}
		}
		return s, nil
	})
}

func (r *Repository) ListShowRequests(ctx context.Context, f booking.LegacyFilter) ([]domain.ShowRequest, error) {
	return queryLegacy(ctx, r, `
		SELECT id, artist_id, venue_id, title, requested_date, status, initiated_by, created_by_id, amount::STRING, description
		FROM show_requests{where} ORDER BY requested_date
	`, f, func(rows pgx.Rows) (domain.ShowRequest, error) {
		var (
			sr     domain.ShowRequest
			date   time.Time
			amount *string
		)
		err := rows.Scan(&sr.ID, &sr.ArtistID, &sr.VenueID, &sr.Title, &date, &sr.Status, &sr.InitiatedBy, &sr.CreatedByID, &amount, &sr.Description)
		if err != nil {
			return sr, err
		}
		sr.RequestedDate = civilDate(date)
		sr.Guarantee, err = nullableDecimal(amount)
		return sr, err
	})
}

func (r *Repository) ListVenueBids(ctx context.Context, f booking.LegacyFilter) ([]domain.VenueBid, error) {
	return queryLegacy(ctx, r, `
		SELECT id, show_request_id, artist_id, venue_id, bidder_id, proposed_date, status,
			guarantee::STRING, door_deal::STRING, ticket_price::STRING, capacity, age_restriction, message
		FROM venue_bids{where} ORDER BY proposed_date
	`, f, func(rows pgx.Rows) (domain.VenueBid, error) {
		var (
			b                             domain.VenueBid
			date                          time.Time
			guarantee, doorDeal, ticketPr *string
		)
		err := rows.Scan(&b.ID, &b.ShowRequestID, &b.ArtistID, &b.VenueID, &b.BidderID, &date, &b.Status,
			&guarantee, &doorDeal, &ticketPr, &b.Capacity, &b.AgeRestriction, &b.Message)
		if err != nil {
			return b, err
		}
		b.ProposedDate = civilDate(date)
		if b.Guarantee, err = nullableDecimal(guarantee); err != nil {
			return b, err
		}
		if b.DoorDeal, err = nullableDecimal(doorDeal); err != nil {
			return b, err
		}
		b.TicketPrice, err = nullableDecimal(ticketPr)
		return b, err
	})
}

func (r *Repository) ListVenueOffers(ctx context.Context, f booking.LegacyFilter) ([]domain.VenueOffer, error) {
	return queryLegacy(ctx, r, `
		SELECT id, artist_id, venue_id, created_by_id, title, proposed_date, status, amount::STRING, door_deal::STRING, message
		FROM venue_offers{where} ORDER BY proposed_date
	`, f, func(rows pgx.Rows) (domain.VenueOffer, error) {
		var (
			o                domain.VenueOffer
			date             time.Time
			amount, doorDeal *string
		)
		err := rows.Scan(&o.ID, &o.ArtistID, &o.VenueID, &o.CreatedByID, &o.Title, &date, &o.Status, &amount, &doorDeal, &o.Message)
		if err != nil {
			return o, err
		}
		o.ProposedDate = civilDate(date)
		if o.Guarantee, err = nullableDecimal(amount); err != nil {
			return o, err
		}
		o.DoorDeal, err = nullableDecimal(doorDeal)
		return o, err
	})
}

// InsertShow seeds a legacy show row.
func (r *Repository) InsertShow(ctx context.Context, s domain.Show) error {
	lineup, err := json.Marshal(s.Lineup)
	if err != nil {
		return errors.Wrap(err, "marshal lineup")
	}
	if s.Lineup == nil {
		lineup = []byte("[]")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO shows (id, artist_id, venue_id, title, date, status, guarantee, capacity, age_restriction, lineup)
		VALUES ($1, $2, $3, $4, $5::DATE, $6, $7::NUMERIC, $8, $9, $10)
	`, s.ID, s.ArtistID, s.VenueID, s.Title, s.Date.String(), s.Status, decimalArg(s.Guarantee), s.Capacity, s.AgeLimit, lineup)
	return err
}

// InsertShowRequest seeds a legacy show request row.
func (r *Repository) InsertShowRequest(ctx context.Context, sr domain.ShowRequest) error {
	initiated := sr.InitiatedBy
	if initiated == "" {
		initiated = domain.InitiatedByArtist
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO show_requests (id, artist_id, venue_id, title, requested_date, status, initiated_by, created_by_id, amount, description)
		VALUES ($1, $2, $3, $4, $5::DATE, $6, $7, $8, $9::NUMERIC, $10)
	`, sr.ID, sr.ArtistID, sr.VenueID, sr.Title, sr.RequestedDate.String(), sr.Status, initiated, sr.CreatedByID,
		decimalArg(sr.Guarantee), sr.Description)
	return err
}
