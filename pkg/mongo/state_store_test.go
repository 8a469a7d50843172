package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/mongo"
	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{})
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestStateStore(t *testing.T) {
	url := os.Getenv("TEST_MONGODB_URL")
	if url == "" {
		t.Skip("TEST_MONGODB_URL is not set")
	}
	ctx := context.Background()
	cfg := mongo.Config{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    4,
		RetryAttempts:  1,
		RetryInterval:  time.Second,
		Database:       "formguard_test",
		Collection:     "form_options_" + uuid.NewString(),
	}

	client, err := mongo.New(ctx, cfg)
	require.NoError(t, err)
	coll := mongo.Collection(client, cfg)
	t.Cleanup(func() {
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	require.NoError(t, mongo.Healthcheck(client)(ctx))

	store := mongo.NewStateStore(coll)
	_, err = store.Load(ctx, "form")
	require.ErrorIs(t, err, validation.ErrOptionsNotFound)

	set := validation.NewOptionSet()
	set.Rules["plan"] = validation.Rule{Kind: "one_of", Params: validator.Params{"values": []string{"free", "pro"}}}
	set.Rules["short"] = validation.Rule{Kind: "max_length", Params: validator.Params{"max": 3}}
	set.Fields["plan"] = validation.Field{Rules: []string{"required", "plan"}, Auto: true}
	set.Order = []string{"plan"}
	require.NoError(t, store.Save(ctx, "form", set))
	require.NoError(t, store.Save(ctx, "form", set))

	got, err := store.Load(ctx, "form")
	require.NoError(t, err)
	assert.Equal(t, []any{"free", "pro"}, got.Rules["plan"].Params["values"])
	values, err := got.Rules["plan"].Params.Strings("values")
	require.NoError(t, err)
	assert.Equal(t, []string{"free", "pro"}, values)
	n, err := got.Rules["short"].Params.Int("max")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, got.Fields["plan"].Auto)
	assert.Equal(t, validation.DefaultErrorTime, got.Settings.ErrorTime)

	require.NoError(t, store.Delete(ctx, "form"))
	_, err = store.Load(ctx, "form")
	require.ErrorIs(t, err, validation.ErrOptionsNotFound)
}
