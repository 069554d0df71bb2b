package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/utils"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestHashPassword(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "4")

	hashed := strings.TrimSpace(run(t, "hash-password", "s3cret-pass"))
	assert.True(t, utils.VerifyPassword("s3cret-pass", hashed))
}

func TestDumpConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	path := filepath.Join(t.TempDir(), "config.json")

	run(t, "dump-config", "--out", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var dumped map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &dumped))
	assert.EqualValues(t, 9090, dumped["Server"]["Port"])
}
