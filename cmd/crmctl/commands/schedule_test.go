package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CURRENCY", "INR")
	t.Setenv("LOCALE", "en-IN")
	t.Setenv("DATABASE_URL", "")

	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScheduleTable(t *testing.T) {
	out, err := run(t, "schedule",
		"--start", "2024-01-31", "--end", "2024-06-30", "--amount", "500",
		"--paid", "2024-01=500", "--paid", "2024-02=250", "--paid", "2023-12=100",
		"--now", "2024-03-10")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	assert.Contains(t, lines[0], "MONTH")
	assert.Contains(t, lines[1], "paid")
	assert.Contains(t, lines[2], "29 Feb 2024")
	assert.Contains(t, lines[2], "partial")
	assert.Contains(t, lines[3], "due")
	assert.Contains(t, lines[6], "upcoming")
	assert.Contains(t, out, "months: 6")
	assert.Contains(t, out, "2,250.00")
	assert.Contains(t, out, "repayments outside the season: 1")
}

func TestScheduleRejectsBadInput(t *testing.T) {
	_, err := run(t, "schedule", "--start", "2024-06-01", "--end", "2024-01-01", "--amount", "500")
	assert.Error(t, err)

	_, err = run(t, "schedule", "--start", "2024-01-01", "--end", "2024-06-01", "--amount", "500", "--paid", "jan=5")
	assert.Error(t, err)

	_, err = run(t, "schedule", "--start", "2024-01-01", "--end", "2024-06-01")
	assert.Error(t, err)
}

func TestPruneNeedsDatabase(t *testing.T) {
	_, err := run(t, "sessions", "prune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
