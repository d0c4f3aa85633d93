package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const ledger = `Date,Item,Writer,Recipient,Amount
01.10.2026,pizza,Alice,Pizza,30
02.10.2026,drinks,Bob,Carol,12
`

const groups = `,Pizza
Alice,x
Bob,x
Carol,x
`

func TestSummarize(t *testing.T) {
	path := writeFile(t, "2026-10.csv", ledger)
	groupsPath := writeFile(t, "groups.csv", groups)
	htmlPath := filepath.Join(t.TempDir(), "summary.html")

	out, stderr, err := run(t, "summarize", path, "--groups", groupsPath, "--html", htmlPath)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	assert.Contains(t, out, "2026-10")
	assert.Contains(t, out, "Balances")
	assert.Contains(t, out, "Clearing")
	assert.NotContains(t, out, "Outlay (stacked)")
	assert.Contains(t, out, "20.00")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Outlay (stacked)")
}

func TestSummarizeAllSteps(t *testing.T) {
	path := writeFile(t, "ledger.csv", ledger)

	out, _, err := run(t, "summarize", path, "--all", "--title", "October")
	require.NoError(t, err)
	assert.Contains(t, out, "October")
	assert.Contains(t, out, "Outlay (expanded)")
}

func TestSummarizeBadRow(t *testing.T) {
	path := writeFile(t, "ledger.csv", "h,h,h,h,h\n01.10.2026,pizza,Alice,Bob,lots\n")

	_, _, err := run(t, "summarize", path)
	assert.ErrorContains(t, err, "invalid amount")
}

func TestCarryOver(t *testing.T) {
	t.Setenv("RECURRING_RECORDS", "rent|Alice|Pizza|900")
	path := writeFile(t, "2026-10.csv", ledger)
	groupsPath := writeFile(t, "groups.csv", groups)

	out, _, err := run(t, "carryover", path, "--groups", groupsPath, "--to", "2026-11", "--date", "01.11.2026")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"Date,Item,Writer,Recipient,Amount",
		"01.11.2026,carryover 2026-10,Alice,Carol,20.00",
		"01.11.2026,carryover 2026-10,Bob,Carol,2.00",
		"01.11.2026,rent,Alice,Pizza,900",
	}, lines)
}

func TestCarryOverIntoSamePeriod(t *testing.T) {
	path := writeFile(t, "2026-10.csv", ledger)

	_, _, err := run(t, "carryover", path, "--to", "2026-10")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "1h")

	out, _, err := run(t, "token", "Alice")
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	claims, err := jwtManager.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Member)
}

func TestTokenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := run(t, "token", "Alice")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}
