// file: cmd/diagnostics_test.go
// version: 2.0.0
// guid: 0f3a7c21-9d4b-4e6a-8c15-b2e9f7d0a6c3

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdfalk/asset-store/internal/database"
)

func newDiagnosticsStore(t *testing.T) (*database.PebbleStore, string) {
	t.Helper()
	require.NoError(t, database.SetEncryptionKey(database.DeriveKeyFromPassword("diagnostics-test")))
	t.Cleanup(func() { _ = database.SetEncryptionKey(nil) })
	path := filepath.Join(t.TempDir(), "settings")
	store, err := database.NewPebbleStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetSetting("asset_store.config", `{"enabled":true}`, "json", false))
	require.NoError(t, store.SetSetting("asset_store.api_key", "plain-secret-value", "string", true))
	return store, path
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))
}

func TestPromptYesNo(t *testing.T) {
	var out bytes.Buffer
	ok, err := promptYesNo(strings.NewReader("YES\n"), &out, "Delete")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Delete? Type 'yes' to confirm")

	ok, err = promptYesNo(strings.NewReader("no\n"), &out, "Delete")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = promptYesNo(strings.NewReader(""), &out, "Delete")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListSettings(t *testing.T) {
	store, _ := newDiagnosticsStore(t)
	defer store.Close()

	var buf bytes.Buffer
	require.NoError(t, listSettings(&buf, store, 10))
	out := buf.String()
	assert.Contains(t, out, "asset_store.config")
	assert.Contains(t, out, "(secret)")
	assert.NotContains(t, out, "plain-secret-value")

	buf.Reset()
	require.NoError(t, listSettings(&buf, store, 1))
	assert.Contains(t, buf.String(), "... 1 more")

	assert.Error(t, listSettings(&buf, store, 0))
}

func TestResetSettings(t *testing.T) {
	store, _ := newDiagnosticsStore(t)
	defer store.Close()

	var buf bytes.Buffer
	require.NoError(t, resetSettings(&buf, store, true))
	assert.Contains(t, buf.String(), "would delete asset_store.config")
	all, err := store.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	buf.Reset()
	require.NoError(t, resetSettings(&buf, store, false))
	assert.Contains(t, buf.String(), "Deleted 2 settings.")
	all, err = store.GetAllSettings()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRunRawPebbleQuery(t *testing.T) {
	store, path := newDiagnosticsStore(t)
	require.NoError(t, store.Close())

	var buf bytes.Buffer
	require.NoError(t, runRawPebbleQuery(&buf, path, 1, "setting:"))
	assert.Equal(t, 1, strings.Count(buf.String(), "Key: setting:"))

	buf.Reset()
	require.NoError(t, runRawPebbleQuery(&buf, path, 5, "missing:"))
	assert.Contains(t, buf.String(), "No keys matched")

	assert.Error(t, runRawPebbleQuery(&buf, path, 0, ""))
}

func TestHashPasswordCommand(t *testing.T) {
	var buf bytes.Buffer
	hashPasswordCmd.SetOut(&buf)
	defer hashPasswordCmd.SetOut(nil)

	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, []string{"hunter22"}))
	hash := strings.TrimSpace(buf.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")))
}
