package calendar_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
)

func TestDate_Arithmetic(t *testing.T) {
	d := calendar.MustDate("2025-01-31")

	assert.Equal(t, "2025-02-05", d.AddDays(5).String())
	// AddMonths follows time.AddDate normalization: Jan 31 + 1 month
	// lands in early March, it does not clamp to Feb 28.
	assert.Equal(t, "2025-03-03", d.AddMonths(1).String())
}

func TestDate_DaysBetween(t *testing.T) {
	from := calendar.MustDate("2025-04-01")

	assert.Equal(t, 0, calendar.DaysBetween(from, from))
	assert.Equal(t, 29, calendar.DaysBetween(from, calendar.MustDate("2025-04-30")))
	assert.Equal(t, -1, calendar.DaysBetween(from, calendar.MustDate("2025-03-31")))
}

func TestDate_Comparisons(t *testing.T) {
	a := calendar.MustDate("2025-04-01")
	b := calendar.MustDate("2025-04-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.Equal(t, b, a.Max(b))
	assert.Equal(t, b, b.Max(a))
}

func TestDate_YearMonth(t *testing.T) {
	assert.Equal(t, "2025-04", calendar.MustDate("2025-04-30").YearMonth())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	// GIVEN: A struct with a date and a nil-able date
	// WHEN: Marshalling and unmarshalling
	// THEN: Dates round-trip as YYYY-MM-DD, zero dates as null

	type payload struct {
		When  calendar.Date  `json:"when"`
		Maybe *calendar.Date `json:"maybe"`
	}

	in := payload{When: calendar.MustDate("2025-04-15")}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2025-04-15","maybe":null}`, string(raw))

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.When.Equal(in.When))
	assert.Nil(t, out.Maybe)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := calendar.ParseDate("15/04/2025")
	assert.Error(t, err)
}
