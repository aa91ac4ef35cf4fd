package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInReferenceZone(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	t.Run("WallClockShiftsToUTC", func(t *testing.T) {
		// Noon on the Sao Paulo wall clock is 15:00 UTC (UTC-3, no DST since 2019)
		authored := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

		got := InReferenceZone(authored, saoPaulo)
		want := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

		assert.True(t, got.Equal(want), "want %s, got %s", want, got)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("SourceOffsetDiscarded", func(t *testing.T) {
		// The same wall-clock fields in different zones normalize identically
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)

		inUTC := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
		inTokyo := time.Date(2026, time.March, 10, 12, 0, 0, 0, tokyo)

		assert.True(t, InReferenceZone(inUTC, saoPaulo).Equal(InReferenceZone(inTokyo, saoPaulo)))
	})
}

func TestExpiryChecks(t *testing.T) {
	assert.True(t, IsExpired(UTCNowAdd(-time.Second)))
	assert.False(t, IsExpired(UTCNowAdd(time.Minute)))

	assert.True(t, IsValid(UTCNowAdd(time.Minute)))
	assert.False(t, IsValid(UTCNowAdd(-time.Second)))
}
