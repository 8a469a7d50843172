package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

type document struct {
	ID        string               `bson:"_id"`
	Options   validation.OptionSet `bson:"options"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// StateStore keeps one document per container in a collection.
type StateStore struct {
	coll *mongo.Collection
}

var _ validation.StateStore = (*StateStore)(nil)

// NewStateStore returns a store over coll, keyed by container id.
func NewStateStore(coll *mongo.Collection) *StateStore {
	return &StateStore{coll: coll}
}

// Load implements validation.StateStore.
func (s *StateStore) Load(ctx context.Context, id string) (*validation.OptionSet, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, validation.ErrOptionsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find options %q: %w", id, err)
	}

	set := doc.Options
	for name, rule := range set.Rules {
		for k, v := range rule.Params {
			rule.Params[k] = plain(v)
		}
		set.Rules[name] = rule
	}
	return &set, nil
}

// Save implements validation.StateStore as an upsert.
func (s *StateStore) Save(ctx context.Context, id string, set *validation.OptionSet) error {
	doc := document{ID: id, Options: *set, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace options %q: %w", id, err)
	}
	return nil
}

// Delete implements validation.StateStore.
func (s *StateStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete options %q: %w", id, err)
	}
	return nil
}

// plain converts driver container types inside rule params to the
// plain Go shapes the validator kinds accept.
func plain(v any) any {
	switch t := v.(type) {
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case int32:
		return int(t)
	default:
		return v
	}
}
