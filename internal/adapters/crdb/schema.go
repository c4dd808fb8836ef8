package crdb

import (
	"context"

	"github.com/cockroachdb/errors"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS memberships (
		user_id UUID NOT NULL,
		entity_type STRING NOT NULL CHECK (entity_type IN ('ARTIST', 'VENUE')),
		entity_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, entity_type, entity_id)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_opportunities (
		id UUID PRIMARY KEY,
		artist_id UUID NOT NULL,
		venue_id UUID NOT NULL,
		title STRING NOT NULL,
		proposed_date DATE NOT NULL,
		initiated_by STRING NOT NULL CHECK (initiated_by IN ('ARTIST', 'VENUE')),
		initiated_by_id UUID NOT NULL,
		source_type STRING NOT NULL,
		source_id UUID NOT NULL,
		status STRING NOT NULL CHECK (status IN ('OPEN', 'PENDING', 'CONFIRMED', 'DECLINED', 'CANCELLED', 'EXPIRED')),
		message STRING NOT NULL DEFAULT '',
		financial_offer JSONB NOT NULL DEFAULT '{}',
		performance_details JSONB NOT NULL DEFAULT '{}',
		venue_details JSONB NOT NULL DEFAULT '{}',
		additional_value JSONB NOT NULL DEFAULT '{}',
		hold_state STRING NOT NULL DEFAULT 'NONE',
		accepted_at TIMESTAMPTZ,
		declined_at TIMESTAMPTZ,
		declined_reason STRING NOT NULL DEFAULT '',
		cancelled_at TIMESTAMPTZ,
		cancellation_reason STRING NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS booking_opportunities_artist_date ON booking_opportunities (artist_id, proposed_date)`,
	`CREATE INDEX IF NOT EXISTS booking_opportunities_venue_date ON booking_opportunities (venue_id, proposed_date)`,
	`CREATE TABLE IF NOT EXISTS hold_requests (
		id UUID PRIMARY KEY,
		show_id UUID,
		show_request_id UUID,
		document_id UUID NOT NULL,
		requested_by_id UUID NOT NULL,
		requested_by_side STRING NOT NULL DEFAULT '',
		responded_by_id UUID,
		duration_hours INT NOT NULL,
		reason STRING NOT NULL DEFAULT '',
		custom_message STRING NOT NULL DEFAULT '',
		status STRING NOT NULL CHECK (status IN ('PENDING', 'ACTIVE', 'EXPIRED', 'CANCELLED', 'DECLINED')),
		requested_at TIMESTAMPTZ NOT NULL,
		responded_at TIMESTAMPTZ,
		starts_at TIMESTAMPTZ,
		expires_at TIMESTAMPTZ
	)`,
	`ALTER TABLE hold_requests ADD COLUMN IF NOT EXISTS requested_by_side STRING NOT NULL DEFAULT ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS hold_requests_one_blocking ON hold_requests (document_id) WHERE status IN ('PENDING', 'ACTIVE')`,
	`CREATE INDEX IF NOT EXISTS hold_requests_due ON hold_requests (expires_at) WHERE status = 'ACTIVE'`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id UUID NOT NULL,
		entity_type STRING NOT NULL CHECK (entity_type IN ('ARTIST', 'VENUE')),
		entity_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, entity_type, entity_id)
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_participants (
		conversation_id UUID NOT NULL REFERENCES conversations (id),
		user_id UUID NOT NULL,
		PRIMARY KEY (conversation_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS conversation_participants_user ON conversation_participants (user_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations (id),
		sender_id UUID NOT NULL,
		content STRING NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS messages_conversation ON messages (conversation_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id UUID PRIMARY KEY,
		artist_id UUID NOT NULL,
		venue_id UUID NOT NULL,
		title STRING NOT NULL DEFAULT '',
		date DATE NOT NULL,
		status STRING NOT NULL,
		guarantee NUMERIC,
		capacity INT NOT NULL DEFAULT 0,
		age_restriction STRING NOT NULL DEFAULT '',
		lineup JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS show_requests (
		id UUID PRIMARY KEY,
		artist_id UUID NOT NULL,
		venue_id UUID,
		title STRING NOT NULL DEFAULT '',
		requested_date DATE NOT NULL,
		status STRING NOT NULL,
		initiated_by STRING NOT NULL DEFAULT 'ARTIST',
		created_by_id UUID NOT NULL,
		amount NUMERIC,
		description STRING NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS venue_bids (
		id UUID PRIMARY KEY,
		show_request_id UUID NOT NULL,
		artist_id UUID NOT NULL,
		venue_id UUID NOT NULL,
		bidder_id UUID NOT NULL,
		proposed_date DATE NOT NULL,
		status STRING NOT NULL,
		guarantee NUMERIC,
		door_deal NUMERIC,
		ticket_price NUMERIC,
		capacity INT NOT NULL DEFAULT 0,
		age_restriction STRING NOT NULL DEFAULT '',
		message STRING NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS venue_offers (
		id UUID PRIMARY KEY,
		artist_id UUID NOT NULL,
		venue_id UUID NOT NULL,
		created_by_id UUID NOT NULL,
		title STRING NOT NULL DEFAULT '',
		proposed_date DATE NOT NULL,
		status STRING NOT NULL,
		amount NUMERIC,
		door_deal NUMERIC,
		message STRING NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		aggregate_type STRING NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type STRING NOT NULL,
		payload_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ,
		status STRING NOT NULL CHECK (status IN ('NEW', 'PUBLISHED', 'FAILED')),
		dedupe_key STRING NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_new ON outbox (created_at) WHERE status = 'NEW'`,
}

// Migrate creates the tables and indexes when they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate: %.60s", stmt)
		}
	}
	return nil
}
