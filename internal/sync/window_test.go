package sync

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_Absent(t *testing.T) {
	ts, err := ParseTimestamp(url.Values{}, SinceParam)

	require.NoError(t, err)
	assert.Nil(t, ts)
}

func TestParseTimestamp_RFC3339(t *testing.T) {
	values := url.Values{SinceParam: []string{"2026-02-01T10:30:00Z"}}

	ts, err := ParseTimestamp(values, SinceParam)

	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.True(t, time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC).Equal(*ts))
}

func TestParseTimestamp_NumericOffset(t *testing.T) {
	values := url.Values{UntilParam: []string{"2026-02-01T10:30:00+03:00"}}

	ts, err := ParseTimestamp(values, UntilParam)

	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.True(t, time.Date(2026, 2, 1, 7, 30, 0, 0, time.UTC).Equal(*ts))
}

func TestParseTimestamp_TruncatesToGranularity(t *testing.T) {
	values := url.Values{SinceParam: []string{"2026-02-01T10:30:00.123456789Z"}}

	ts, err := ParseTimestamp(values, SinceParam)

	require.NoError(t, err)
	assert.Equal(t, 123456000, ts.Nanosecond())
}

func TestParseTimestamp_Multiple(t *testing.T) {
	values := url.Values{SinceParam: []string{"2026-02-01T10:30:00Z", "2026-02-02T10:30:00Z"}}

	_, err := ParseTimestamp(values, SinceParam)

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "multiple timestamp values")
}

func TestParseTimestamp_MissingTimezone(t *testing.T) {
	for _, repr := range []string{"2026-02-01T10:30:00", "2026-02-01 10:30:00"} {
		values := url.Values{SinceParam: []string{repr}}

		_, err := ParseTimestamp(values, SinceParam)

		require.ErrorIs(t, err, ErrValidation, repr)
		assert.Contains(t, err.Error(), "timestamp without timezone", repr)
	}
}

func TestParseTimestamp_Garbage(t *testing.T) {
	values := url.Values{SinceParam: []string{"yesterday"}}

	_, err := ParseTimestamp(values, SinceParam)

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "invalid timestamp format")
}

func TestParseWindow_Defaults(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 999, time.UTC)

	w, err := ParseWindow(url.Values{}, now)

	require.NoError(t, err)
	assert.Nil(t, w.Since)
	assert.True(t, now.Truncate(Granularity).Equal(w.Until))
}

func TestParseWindow_Explicit(t *testing.T) {
	values := url.Values{
		SinceParam: []string{"2026-02-01T10:00:00Z"},
		UntilParam: []string{"2026-02-01T11:00:00Z"},
	}

	w, err := ParseWindow(values, time.Now())

	require.NoError(t, err)
	require.NotNil(t, w.Since)
	assert.True(t, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC).Equal(*w.Since))
	assert.True(t, time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC).Equal(w.Until))
}

func TestParseWindow_InvalidUntil(t *testing.T) {
	values := url.Values{UntilParam: []string{"not-a-timestamp"}}

	_, err := ParseWindow(values, time.Now())

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), UntilParam)
}
