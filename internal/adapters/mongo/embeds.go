package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmbedRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewEmbedRepository(db *mongo.Database, logger observability.Logger) *EmbedRepository {
	return &EmbedRepository{
		coll:   db.Collection("media_embeds"),
		logger: logger,
	}
}

type embedDoc struct {
	ID         string    `bson:"_id"`
	EntityType string    `bson:"entity_type"`
	EntityID   string    `bson:"entity_id"`
	URL        string    `bson:"url"`
	Title      string    `bson:"title,omitempty"`
	Provider   string    `bson:"provider"`
	Position   int       `bson:"position"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toEmbedDoc(e domain.MediaEmbed) embedDoc {
	return embedDoc{
		ID:         e.ID.String(),
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID.String(),
		URL:        e.URL,
		Title:      e.Title,
		Provider:   string(e.Provider),
		Position:   e.Position,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (d embedDoc) toDomain() (domain.MediaEmbed, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.MediaEmbed{}, errors.Wrapf(err, "embed id %q", d.ID)
	}
	entityID, err := uuid.Parse(d.EntityID)
	if err != nil {
		return domain.MediaEmbed{}, errors.Wrapf(err, "embed %s entity id", d.ID)
	}
	return domain.MediaEmbed{
		ID:         id,
		EntityType: domain.EntityType(d.EntityType),
		EntityID:   entityID,
		URL:        d.URL,
		Title:      d.Title,
		Provider:   domain.EmbedProvider(d.Provider),
		Position:   d.Position,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

// EnsureIndexes creates the lookup index used by ListEmbeds.
func (r *EmbedRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "position", Value: 1}},
	})
	return err
}

func (r *EmbedRepository) ListEmbeds(ctx context.Context, t domain.EntityType, entityID uuid.UUID) ([]domain.MediaEmbed, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"entity_type": string(t), "entity_id": entityID.String()},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "created_at", Value: 1}}),
	)
	if err != nil {
		r.logger.Error("failed to list embeds", err)
		return nil, err
	}
	var docs []embedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.MediaEmbed, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EmbedRepository) GetEmbed(ctx context.Context, id uuid.UUID) (domain.MediaEmbed, error) {
	var d embedDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.MediaEmbed{}, errors.Wrapf(domain.ErrNotFound, "embed %s", id)
	}
	if err != nil {
		r.logger.Error("failed to get embed", err)
		return domain.MediaEmbed{}, err
	}
	return d.toDomain()
}

func (r *EmbedRepository) InsertEmbed(ctx context.Context, e domain.MediaEmbed) error {
	_, err := r.coll.InsertOne(ctx, toEmbedDoc(e))
	if err != nil {
		r.logger.Error("failed to insert embed", err)
		return err
	}
	return nil
}

func (r *EmbedRepository) UpdateEmbed(ctx context.Context, e domain.MediaEmbed) error {
	d := toEmbedDoc(e)
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": d.ID},
		bson.M{"$set": bson.M{
			"url":        d.URL,
			"title":      d.Title,
			"provider":   d.Provider,
			"position":   d.Position,
			"updated_at": d.UpdatedAt,
		}},
	)
	if err != nil {
		r.logger.Error("failed to update embed", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(domain.ErrNotFound, "embed %s", e.ID)
	}
	return nil
}

func (r *EmbedRepository) DeleteEmbed(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		r.logger.Error("failed to delete embed", err)
		return err
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(domain.ErrNotFound, "embed %s", id)
	}
	return nil
}
