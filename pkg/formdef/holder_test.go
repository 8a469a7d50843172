package formdef_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

const oneForm = `
forms:
  login:
    fields:
      - name: user
        rules: [required]
`

const twoForms = `
forms:
  login:
    fields:
      - name: user
        rules: [required]
  reset:
    fields:
      - name: email
        rules: [required]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestHolder_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "forms.yaml")
	writeFile(t, path, oneForm)

	h, err := formdef.NewHolder(path, formdef.WithCatalog(validator.NewCatalog()))
	require.NoError(t, err)
	assert.Equal(t, []string{"login"}, h.Get().Names())

	var changes, failures int
	h.OnChange(func(*formdef.File) { changes++ })
	h.OnReload(func(err error) {
		if err != nil {
			failures++
		}
	})

	writeFile(t, path, twoForms)
	require.NoError(t, h.Reload())
	assert.Equal(t, []string{"login", "reset"}, h.Get().Names())

	writeFile(t, path, "forms: [broken")
	require.Error(t, h.Reload())
	assert.Equal(t, []string{"login", "reset"}, h.Get().Names(), "previous version is kept")

	_, err = h.Form("reset")
	require.NoError(t, err)
	assert.Equal(t, 1, changes)
	assert.Equal(t, 1, failures)
}

func TestHolder_Watch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "forms.yaml")
	writeFile(t, path, oneForm)

	h, err := formdef.NewHolder(path)
	require.NoError(t, err)
	var reloaded atomic.Int32
	h.OnChange(func(*formdef.File) { reloaded.Add(1) })

	require.NoError(t, h.Watch())
	t.Cleanup(h.Stop)

	writeFile(t, path, twoForms)
	assert.Eventually(t, func() bool {
		return reloaded.Load() > 0 && len(h.Get().Names()) == 2
	}, 5*time.Second, 20*time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestNewHolder_Errors(t *testing.T) {
	t.Parallel()

	_, err := formdef.NewHolder(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, formdef.ErrReadFile)
}
