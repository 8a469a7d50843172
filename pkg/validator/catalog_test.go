package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func el(values ...string) validator.Element {
	return validator.NewElement("field", values, nil)
}

func TestCatalog_Build(t *testing.T) {
	t.Parallel()

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		c := validator.NewCatalog()
		_, err := c.Build("nope", nil)
		require.ErrorIs(t, err, validator.ErrUnknownKind)
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		c := validator.NewCatalog()
		_, err := c.Build("min_length", validator.Params{})
		require.ErrorIs(t, err, validator.ErrInvalidParams)

		_, err = c.Build("pattern", validator.Params{"pattern": "("})
		require.ErrorIs(t, err, validator.ErrInvalidParams)

		_, err = c.Build("between", validator.Params{"min": 5, "max": 1})
		require.ErrorIs(t, err, validator.ErrInvalidParams)
	})

	t.Run("builtin kinds are listed", func(t *testing.T) {
		t.Parallel()
		kinds := validator.NewCatalog().Kinds()
		for _, k := range []string{"required", "email", "expr", "uuid", "equal_to", "one_of"} {
			assert.Contains(t, kinds, k)
		}
		assert.IsIncreasing(t, kinds)
	})

	t.Run("register custom kind", func(t *testing.T) {
		t.Parallel()
		c := validator.NewCatalog()
		require.NoError(t, c.RegisterPredicate("even_length", func(e validator.Element) bool {
			return len(e.Value())%2 == 0
		}))
		assert.True(t, c.Has("even_length"))

		check, err := c.Build("even_length", nil)
		require.NoError(t, err)
		assert.True(t, check(el("ab")))
		assert.False(t, check(el("abc")))
	})

	t.Run("register rejects empty input", func(t *testing.T) {
		t.Parallel()
		c := validator.NewCatalog()
		require.ErrorIs(t, c.Register("", nil), validator.ErrInvalidFactory)
		require.ErrorIs(t, c.RegisterPredicate("x", nil), validator.ErrInvalidFactory)
	})

	t.Run("catalogs are independent", func(t *testing.T) {
		t.Parallel()
		a, b := validator.NewCatalog(), validator.NewCatalog()
		require.NoError(t, a.RegisterPredicate("only_a", validator.Required))
		assert.False(t, b.Has("only_a"))
	})
}

func TestMessageKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "validation.min_length", validator.MessageKey("min_length"))
}

func TestParams(t *testing.T) {
	t.Parallel()

	p := validator.Params{
		"int":    3,
		"float":  2.5,
		"json":   float64(7),
		"str":    "12",
		"list":   []any{"a", 1},
		"single": "x",
	}

	n, err := p.Int("int")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = p.Int("json")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = p.Int("str")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = p.Int("float")
	require.ErrorIs(t, err, validator.ErrInvalidParams)

	list, err := p.Strings("list")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1"}, list)

	list, err = p.Strings("single")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, list)

	assert.Equal(t, "fallback", p.StringOr("missing", "fallback"))
	assert.ElementsMatch(t, []string{"int", "3"}, validator.Params{"int": 3}.Args())
}
