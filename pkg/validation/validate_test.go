package validation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

func emailFixture(t *testing.T, value string) *fixture {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t, map[string]string{"email": value})
	require.NoError(t, f.rules.SetRule(ctx, "emailFormat", validation.Rule{Kind: "email", Message: "Invalid email"}))
	require.NoError(t, f.fields.AddField(ctx, "email", validation.Field{Rules: []string{"required", "emailFormat"}}))
	return f
}

func TestValidate_EmptyRequired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := emailFixture(t, "")

	res, err := f.fields.Validate(ctx, "email", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusInvalid, res.Status)
	assert.Equal(t, "required", res.Rule)
	assert.Equal(t, []string{"This field is required"}, f.ui.messages("#error_email"))
	assert.True(t, f.ui.isVisible("#error_email"))
}

func TestValidate_SecondRuleFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := emailFixture(t, "not-an-email")

	res, err := f.fields.Validate(ctx, "email", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusInvalid, res.Status)
	assert.Equal(t, "emailFormat", res.Rule)
	assert.Equal(t, []string{"Invalid email"}, f.ui.messages("#error_email"))
}

func TestValidate_OverrideMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := emailFixture(t, "")
	require.NoError(t, f.fields.SetMessages(ctx, "email", map[string]string{"required": "We need your email"}))

	res, err := f.fields.Validate(ctx, "email", "#explicit")
	require.NoError(t, err)
	assert.Equal(t, "We need your email", res.Message)
	assert.Equal(t, []string{"We need your email"}, f.ui.messages("#explicit"))
	assert.Empty(t, f.ui.messages("#error_email"))
}

func TestValidate_EmptyOptionalIsSkipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"site": "  "})
	calls := 0
	require.NoError(t, f.rules.SetRule(ctx, "counted", counter(false, &calls)))
	require.NoError(t, f.fields.AddField(ctx, "site", validation.Field{Rules: []string{"counted"}}))

	res, err := f.fields.Validate(ctx, "site", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusSkipped, res.Status)
	assert.True(t, res.Passed())
	assert.Zero(t, calls)

	f.ui.set("site", "value")
	res, err = f.fields.Validate(ctx, "site", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusInvalid, res.Status)
	assert.Equal(t, 1, calls)
}

func TestValidate_ShortCircuitsInAttachmentOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"name": "Ann"})
	var first, second, third int
	require.NoError(t, f.rules.SetRules(ctx, map[string]validation.Rule{
		"first":  counter(true, &first),
		"second": counter(false, &second),
		"third":  counter(false, &third),
	}))
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{Rules: []string{"first", "second", "third"}}))
	require.NoError(t, f.fields.AddRules(ctx, "name", "second"))

	res, err := f.fields.Validate(ctx, "name", "")
	require.NoError(t, err)
	assert.Equal(t, "second", res.Rule)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second, "a rule attached twice runs once")
	assert.Zero(t, third)
}

func TestValidate_MissingElement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.fields.AddField(ctx, "ghost", validation.Field{Rules: []string{"required"}}))

	res, err := f.fields.Validate(ctx, "ghost", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusMissing, res.Status)
	assert.False(t, res.Passed())
	assert.Empty(t, f.ui.messages("#error_ghost"))
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"name": "x"})

	_, err := f.fields.Validate(ctx, "nobody", "")
	require.ErrorIs(t, err, validation.ErrFieldNotFound)

	require.NoError(t, f.rules.SetRule(ctx, "temp", validation.Rule{Kind: "alpha"}))
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{Rules: []string{"temp"}}))
	set, err := f.state.Load(ctx, "form")
	require.NoError(t, err)
	delete(set.Rules, "temp")
	require.NoError(t, f.state.Save(ctx, "form", set))

	_, err = f.fields.Validate(ctx, "name", "")
	require.ErrorIs(t, err, validation.ErrRuleNotFound)
}

func TestValidate_SiblingRule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"password": "s3cret", "confirm": "other"})
	require.NoError(t, f.rules.SetRule(ctx, "matches", validation.Rule{
		Kind:   "equal_to",
		Params: map[string]any{"field": "password"},
	}))
	require.NoError(t, f.fields.AddField(ctx, "confirm", validation.Field{Rules: []string{"matches"}}))

	res, err := f.fields.Validate(ctx, "confirm", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusInvalid, res.Status)
	assert.Equal(t, "Must match password", res.Message)

	f.ui.set("confirm", "s3cret")
	res, err = f.fields.Validate(ctx, "confirm", "")
	require.NoError(t, err)
	assert.Equal(t, validation.StatusValid, res.Status)
}

func TestInteract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"name": ""})
	var succeeded []string
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{
		Rules: []string{"required"},
		Auto:  true,
		Success: func(_ context.Context, ev validation.FieldEvent) {
			succeeded = append(succeeded, ev.Field+"="+ev.Element.Value())
		},
	}))

	require.NoError(t, f.ui.fire(ctx, "name", "blur"))
	assert.Equal(t, []string{"This field is required"}, f.ui.messages("#error_name"))
	assert.Empty(t, succeeded)

	require.NoError(t, f.ui.fire(ctx, "name", "blur"))
	assert.Len(t, f.ui.messages("#error_name"), 1, "the place is cleared before each pass")

	f.ui.set("name", "Ann")
	require.NoError(t, f.ui.fire(ctx, "name", "blur"))
	assert.Empty(t, f.ui.messages("#error_name"))
	assert.Equal(t, []string{"name=Ann"}, succeeded)

	f.ui.set("name", "")
	require.NoError(t, f.ui.fire(ctx, "name", "blur"))
	require.NoError(t, f.ui.fire(ctx, "name", "click focus"))
	assert.Empty(t, f.ui.messages("#error_name"))
	assert.False(t, f.ui.isVisible("#error_name"))
}
