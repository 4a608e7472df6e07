package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() { Stdout, Stderr = prevOut, prevErr })
	return &out, &errOut
}

func TestOKAndFailWithoutTTY(t *testing.T) {
	out, errOut := captureOutput(t)
	SetTheme("classic")

	OK("added")
	Fail("nope")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ nope\n", errOut.String())
}

func TestMonoTheme(t *testing.T) {
	out, _ := captureOutput(t)
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })
	SetColorForcing(true, false)
	t.Cleanup(func() { SetColorForcing(false, false) })

	OK("saved")
	assert.Equal(t, "ok saved\n", out.String())
}

func TestPanelFramesLines(t *testing.T) {
	out, _ := captureOutput(t)
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	Panel([]string{"Tasks", "a"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "+"))
	assert.Contains(t, lines[1], "Tasks")
}

func TestUnknownThemeFallsBack(t *testing.T) {
	SetTheme("disco")
	assert.Equal(t, "classic", Current().Name)
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		due  time.Time
		want string
	}{
		{now.Add(30 * time.Second), "in <1m"},
		{now.Add(45 * time.Minute), "in 45m"},
		{now.Add(5 * time.Hour), "in 5h"},
		{now.Add(72 * time.Hour), "in 3d"},
		{now.Add(-2 * time.Hour), "2h overdue"},
		{now.Add(-96 * time.Hour), "4d overdue"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Relative(tt.due, now))
	}
}

func TestParseDue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseDue("2024-01-01T00:00:00Z", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDue("2024-01-02", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local), got)

	got, err = ParseDue("2024-01-02 09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 30, 0, 0, time.Local), got)

	got, err = ParseDue("+90m", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(90*time.Minute), got)

	got, err = ParseDue("+2d", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 2), got)

	for _, bad := range []string{"", "tomorrow", "+xd", "+soon"} {
		_, err := ParseDue(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestFormatDue(t *testing.T) {
	assert.Equal(t, "no date", FormatDue(time.Time{}))
	assert.Equal(t, "2024-01-02", FormatDue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2024-01-02 09:30", FormatDue(time.Date(2024, 1, 2, 9, 30, 0, 0, time.Local)))
}
