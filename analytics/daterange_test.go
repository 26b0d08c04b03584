package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, manila)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, manila) }

	tests := []struct {
		name     string
		from, to time.Time
	}{
		{RangeToday, day(15), day(16)},
		{RangeYesterday, day(14), day(15)},
		{RangeLast7Days, day(8), day(16)},
		{RangeLast30Days, time.Date(2024, 2, 14, 0, 0, 0, 0, manila), day(16)},
		{RangeThisMonth, day(1), day(16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.name, now)
			require.NoError(t, err)
			assert.True(t, tt.from.Equal(r.From), "from %s", r.From)
			assert.True(t, tt.to.Equal(r.To), "to %s", r.To)
		})
	}

	_, err := ParseDateRange("lastyear", now)
	assert.ErrorIs(t, err, ErrUnknownRange)
}
