package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-03-01T12:00:00Z",
		"2024-03-01T14:00:00+02:00",
		"2024-03-01T12:00:00",
		"2024-03-01 12:00:00",
		"2024-03-01T12:00:00.0000004",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), "%s: got %s", s, got.Time)
		assert.Equal(t, time.UTC, got.Location(), s)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2024-13-01T00:00:00", "1709294400"} {
		_, err := ParseTimestamp(s)
		assert.Error(t, err, s)
	}
}

func TestTimestampJSON(t *testing.T) {
	var dst struct {
		PostedTime *Timestamp `json:"posted_time"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"posted_time": "2024-03-01T12:00:00.123456"}`), &dst))
	require.NotNil(t, dst.PostedTime)
	assert.True(t, dst.PostedTime.Equal(time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)))

	out, err := json.Marshal(dst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posted_time": "2024-03-01T12:00:00.123456Z"}`, string(out))

	dst.PostedTime = nil
	require.NoError(t, json.Unmarshal([]byte(`{"posted_time": null}`), &dst))
	assert.Nil(t, dst.PostedTime)

	assert.Error(t, json.Unmarshal([]byte(`{"posted_time": 1709294400}`), &dst))
}
