package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-03-05")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), end)
}

func TestDayBounds_RejectsBadFormat(t *testing.T) {
	_, _, err := dayBounds(time.UTC, "not-a-date")
	require.Error(t, err)
}
