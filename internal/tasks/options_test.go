package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)

	next, err := NextRun("@hourly", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), next)

	next, err = NextRun("30 3 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 30, 0, 0, time.UTC), next)

	_, err = NextRun("every hour", from)
	require.Error(t, err)
}
