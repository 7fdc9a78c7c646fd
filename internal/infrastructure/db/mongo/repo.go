// Package mongo stores each event as one BSON document in the "events" collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	zlog "github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionName = "events"
	maxUpdateTries = 5
)

// document adds a revision counter used for compare-and-swap replaces.
type document struct {
	domain.Event `bson:",inline"`
	Rev          int64 `bson:"_rev"`
}

type Repo struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(collectionName)}
}

// Connect opens a client for uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx,
		options.Client().ApplyURI(uri),
		options.Client().SetConnectTimeout(10*time.Second),
		options.Client().SetServerSelectionTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the listing indexes. It is safe to call on every start.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	names, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "isArchived", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongodb indexes: %w", err)
	}
	zlog.Debug().Strs("indexes", names).Msg("mongodb indexes ready")
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Event{}
	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode event document: %w", err)
		}
		out = append(out, normalize(d.Event))
	}
	return out, cur.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Event, error) {
	d, err := r.find(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	return normalize(d.Event), nil
}

func (r *Repo) Insert(ctx context.Context, e domain.Event) error {
	_, err := r.coll.InsertOne(ctx, document{Event: e})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrValidationMeta("duplicate event id", map[string]string{"id": e.ID})
	}
	return err
}

// Update replaces the document only if its revision is unchanged since the
// read, retrying a bounded number of times when another writer got there first.
func (r *Repo) Update(ctx context.Context, id string, mutate func(*domain.Event)) (domain.Event, error) {
	for try := 0; try < maxUpdateTries; try++ {
		d, err := r.find(ctx, id)
		if err != nil {
			return domain.Event{}, err
		}

		e := normalize(d.Event)
		mutate(&e)
		e.ID = id

		res, err := r.coll.ReplaceOne(ctx,
			bson.M{"_id": id, "_rev": d.Rev},
			document{Event: e, Rev: d.Rev + 1},
		)
		if err != nil {
			return domain.Event{}, err
		}
		if res.MatchedCount == 1 {
			return e, nil
		}
		zlog.Debug().Str("event_id", id).Int("try", try+1).Msg("event revision changed, retrying update")
	}
	return domain.Event{}, fmt.Errorf("update event %s: too much contention", id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound("Event not found")
	}
	return nil
}

func (r *Repo) find(ctx context.Context, id string) (document, error) {
	var d document
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document{}, domain.ErrNotFound("Event not found")
	}
	if err != nil {
		return document{}, err
	}
	return d, nil
}

func normalize(e domain.Event) domain.Event {
	if e.RSVPs == nil {
		e.RSVPs = []domain.RSVP{}
	}
	return e
}
