package validation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

func TestFieldRegistry_AddFieldDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, map[string]string{"name": ""})
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{Rules: []string{"required", "required"}}))

	got, ok, err := f.fields.GetField(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"required"}, got.Rules)
	assert.False(t, got.Auto)
	assert.Equal(t, "blur", got.ValidateBind)
	assert.Equal(t, "click focus", got.ResetErrorBind)
	assert.Equal(t, "#error_name", got.MessagePlace)
	assert.True(t, got.OwnPlace)
	assert.Empty(t, got.Messages)

	require.Len(t, f.ui.created, 1)
	assert.Equal(t, "error_name", f.ui.created[0].ID)
	assert.Equal(t, map[string]string{"color": "red"}, f.ui.created[0].CSS)
	assert.Nil(t, f.ui.handler("name", "blur"), "manual fields are not bound")
}

func TestFieldRegistry_FieldBindSetting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.opts.Set(ctx, validation.OptFieldBind, "change")
	require.NoError(t, err)
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{Auto: true}))

	got, _, err := f.fields.GetField(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "change", got.ValidateBind)
	assert.NotNil(t, f.ui.handler("name", "change"))
	assert.NotNil(t, f.ui.handler("name", "click focus"))
}

func TestFieldRegistry_UnknownRuleFailsFast(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)

	err := f.fields.AddFields(ctx, []validation.NamedField{
		{Name: "a", Field: validation.Field{Rules: []string{"required"}}},
		{Name: "b", Field: validation.Field{Rules: []string{"ghost"}}},
	})
	require.ErrorIs(t, err, validation.ErrRuleNotFound)

	names, err := f.fields.FieldNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	err = f.fields.AddField(ctx, "", validation.Field{})
	require.ErrorIs(t, err, validation.ErrInvalidField)
}

func TestFieldRegistry_ReAddKeepsSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.fields.AddFields(ctx, []validation.NamedField{
		{Name: "first", Field: validation.Field{}},
		{Name: "second", Field: validation.Field{Auto: true}},
		{Name: "third", Field: validation.Field{}},
	}))
	require.NoError(t, f.fields.AddField(ctx, "second", validation.Field{Rules: []string{"required"}}))

	names, err := f.fields.FieldNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names)

	got, _, err := f.fields.GetField(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, []string{"required"}, got.Rules, "last write wins")
	assert.Equal(t, "#error_second", got.MessagePlace, "allocated place is reused")
	assert.Nil(t, f.ui.handler("second", "blur"), "old triggers are unbound")

	stored, err := f.state.Load(ctx, "form")
	require.NoError(t, err)
	assert.Contains(t, stored.Fields, "second")
	assert.NotContains(t, stored.Fields, "fieldName")
}

func TestFieldRegistry_RemoveField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.fields.AddField(ctx, "email", validation.Field{Auto: true}))
	require.NoError(t, f.fields.AddField(ctx, "shared", validation.Field{MessagePlace: "#errors"}))
	require.True(t, f.ui.hasPlace("#error_email"))

	require.NoError(t, f.fields.RemoveField(ctx, "email"))
	assert.False(t, f.ui.hasPlace("#error_email"))
	assert.Nil(t, f.ui.handler("email", "blur"))
	assert.Nil(t, f.ui.handler("email", "click focus"))

	_, ok, err := f.fields.GetField(ctx, "email")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.fields.RemoveField(ctx, "shared"))
	assert.NotContains(t, f.ui.removed, "#errors", "caller-owned places are left alone")

	err = f.fields.RemoveField(ctx, "email")
	require.ErrorIs(t, err, validation.ErrFieldNotFound)
}

func TestFieldRegistry_Rules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.rules.SetRule(ctx, "email", validation.Rule{}))
	require.NoError(t, f.rules.SetRule(ctx, "alpha", validation.Rule{}))
	require.NoError(t, f.fields.AddField(ctx, "email", validation.Field{}))

	require.NoError(t, f.fields.AddRules(ctx, "email", "required", "email"))
	require.NoError(t, f.fields.AddRules(ctx, "email", "email", "alpha"))
	got, _, err := f.fields.GetField(ctx, "email")
	require.NoError(t, err)
	assert.Equal(t, []string{"required", "email", "alpha"}, got.Rules)

	err = f.fields.AddRules(ctx, "email", "ghost")
	require.ErrorIs(t, err, validation.ErrRuleNotFound)

	require.NoError(t, f.fields.RemoveRules(ctx, "email", "alpha", "not-attached"))
	resolved, ok, err := f.fields.GetRules(ctx, "email")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, resolved, 2)
	assert.Contains(t, resolved, "required")
	assert.Contains(t, resolved, "email")

	_, ok, err = f.fields.GetRules(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	err = f.fields.RemoveRules(ctx, "nobody", "email")
	require.ErrorIs(t, err, validation.ErrFieldNotFound)
}

func TestFieldRegistry_Messages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.fields.AddField(ctx, "name", validation.Field{
		Messages: map[string]string{"required": "Name please"},
	}))
	require.NoError(t, f.fields.SetMessages(ctx, "name", map[string]string{"min_length": "Longer"}))

	msgs, ok, err := f.fields.GetMessages(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"required": "Name please", "min_length": "Longer"}, msgs)

	_, ok, err = f.fields.GetMessages(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFieldRegistry_GetFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.fields.AddField(ctx, "a", validation.Field{}))
	require.NoError(t, f.fields.AddField(ctx, "b", validation.Field{}))

	all, err := f.fields.GetFields(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := f.fields.GetFields(ctx, "a", "zzz")
	require.NoError(t, err)
	assert.NotNil(t, some["a"])
	require.Contains(t, some, "zzz")
	assert.Nil(t, some["zzz"])
}

func TestFieldRegistry_ReAddKeepsBindingsWhenSaveFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &flakyStore{MemoryStateStore: validation.NewMemoryStateStore()}
	opts := validation.NewOptionStore("form", store)
	rules := validation.NewRuleRegistry(opts, nil, enTranslator(t))
	require.NoError(t, rules.Seed(ctx))
	ui := newFakeUI(nil)
	fields := validation.NewFieldRegistry(opts, rules, ui, nil)

	require.NoError(t, fields.AddField(ctx, "email", validation.Field{Rules: []string{"required"}, Auto: true}))
	require.NotNil(t, ui.handler("email", "blur"))
	created := len(ui.created)

	store.failSave.Store(true)
	err := fields.AddFields(ctx, []validation.NamedField{
		{Name: "email", Field: validation.Field{Rules: []string{"required"}, Auto: true, ValidateBind: "change"}},
		{Name: "name", Field: validation.Field{Rules: []string{"required"}}},
	})
	require.ErrorIs(t, err, errSaveFailed)

	got, ok, err := fields.GetField(ctx, "email")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "blur", got.ValidateBind, "stored descriptor unchanged")
	assert.NotNil(t, ui.handler("email", "blur"), "old bindings stay in place")
	assert.NotNil(t, ui.handler("email", "click focus"))
	assert.Nil(t, ui.handler("email", "change"))
	assert.True(t, ui.hasPlace("#error_email"))
	assert.Len(t, ui.created, created+1, "one place was created for name")
	assert.False(t, ui.hasPlace("#error_name"), "place created for the failed batch is removed")
}
