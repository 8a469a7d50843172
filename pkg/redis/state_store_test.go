package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/redis"
	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

func testConfig(t *testing.T) redis.Config {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	return redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Second,
		ConnectTimeout: 5 * time.Second,
		KeyPrefix:      "formguard_test:" + uuid.NewString() + ":",
		StateTTL:       time.Minute,
	}
}

func TestConnect_BadURL(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "://nope"})
	require.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

func TestStateStore(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	client, err := redis.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, redis.Healthcheck(client)(ctx))

	store := redis.NewStateStore(client, cfg)
	_, err = store.Load(ctx, "form")
	require.ErrorIs(t, err, validation.ErrOptionsNotFound)

	set := validation.NewOptionSet()
	set.Settings.StopOnError = true
	set.Rules["short"] = validation.Rule{Kind: "max_length", Params: validator.Params{"max": 3}}
	set.Fields["name"] = validation.Field{Rules: []string{"required", "short"}, Messages: map[string]string{"short": "Too long"}}
	set.Order = []string{"name"}
	require.NoError(t, store.Save(ctx, "form", set))

	got, err := store.Load(ctx, "form")
	require.NoError(t, err)
	assert.True(t, got.Settings.StopOnError)
	assert.Equal(t, 5*time.Second, got.Settings.ErrorTime)
	assert.Equal(t, []string{"required", "short"}, got.Fields["name"].Rules)
	assert.Equal(t, "Too long", got.Fields["name"].Messages["short"])
	assert.EqualValues(t, 3, got.Rules["short"].Params["max"])

	require.NoError(t, store.Delete(ctx, "form"))
	_, err = store.Load(ctx, "form")
	require.ErrorIs(t, err, validation.ErrOptionsNotFound)
}

func TestStateStore_WithContainer(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	client, err := redis.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c, err := validation.Attach(ctx, "signup", nopUI{}, redis.NewStateStore(client, cfg))
	require.NoError(t, err)
	require.NoError(t, c.AddRule(ctx, "emailFormat", validation.Rule{Kind: "email"}))

	rule, ok, err := c.GetRule(ctx, "emailFormat")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "email", rule.Kind)
	require.NoError(t, c.Detach(ctx, true))
}

type nopUI struct{}

func (nopUI) CreateMessagePlace(p validation.MessagePlace) string             { return "#" + p.ID }
func (nopUI) RemoveMessagePlace(string)                                       {}
func (nopUI) BindInteraction(string, string, validation.InteractionHandler)   {}
func (nopUI) UnbindInteraction(string, string)                                {}
func (nopUI) RenderMessage(string, string)                                    {}
func (nopUI) ClearMessages(string)                                            {}
func (nopUI) ShowMessages(string, string)                                     {}
func (nopUI) HideMessages(string, string)                                     {}
func (nopUI) FieldElement(string) (validator.Element, bool)                   { return validator.Element{}, false }
func (nopUI) OnSubmit(validation.SubmitHandler)                               {}
