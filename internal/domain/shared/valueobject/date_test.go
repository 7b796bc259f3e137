package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", d.String())

	_, err = ParseDate("05/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestDate_Comparison(t *testing.T) {
	a, _ := ParseDate("2024-01-09")
	b, _ := ParseDate("2024-01-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	// Zero-padding keeps string order chronological across month boundaries
	c, _ := ParseDate("2024-02-01")
	assert.True(t, b.Before(c))
}

func TestDate_AddDays(t *testing.T) {
	d, _ := ParseDate("2024-02-27")
	assert.Equal(t, "2024-03-01", d.AddDays(3).String()) // leap year
	assert.Equal(t, "2024-02-26", d.AddDays(-1).String())

	endOfYear, _ := ParseDate("2024-12-31")
	assert.Equal(t, "2025-01-01", endOfYear.AddDays(1).String())
}

func TestDate_DaysUntil(t *testing.T) {
	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2024-01-10")

	assert.Equal(t, 9, start.DaysUntil(end))
	assert.Equal(t, -9, end.DaysUntil(start))
	assert.Equal(t, 0, start.DaysUntil(start))
	assert.Equal(t, 10, start.DaysInclusive(end))
}

func TestDate_YearMonth(t *testing.T) {
	d, _ := ParseDate("2024-06-15")
	assert.Equal(t, "2024-06", d.YearMonth())
	assert.Equal(t, "", Date{}.YearMonth())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-03-31")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-31"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))
}

func TestDate_ScanTimeValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-20", d.String())

	var empty Date
	require.NoError(t, empty.Scan(nil))
	assert.True(t, empty.IsZero())
}
