package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, tc := range map[string]struct {
		deadline time.Time
		want     time.Duration
	}{
		"already passed":   {now.Add(-24 * time.Hour), MinExpiry},
		"sooner than min":  {now.Add(10 * time.Minute), MinExpiry},
		"review cache TTL": {now.Add(time.Hour), 2 * time.Hour},
		"a day away":       {now.Add(24 * time.Hour), 48 * time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Expiry(now, tc.deadline))
		})
	}
}

func TestEntryRoundTrip(t *testing.T) {
	deadline := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	reviews := []byte(`[{"author_name":"Sam","rating":5,"text":"Found us a house in a week.","time":1709290800}]`)

	v, d, err := DecodeEntry(EncodeEntry(deadline, reviews))
	require.NoError(t, err)
	assert.True(t, deadline.Equal(d))
	assert.Equal(t, string(reviews), string(v))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(v, &decoded))
	assert.Equal(t, "Sam", decoded[0]["author_name"])
}

func TestEntryEmptyValue(t *testing.T) {
	deadline := time.Unix(1709290800, 0)
	v, d, err := DecodeEntry(EncodeEntry(deadline, nil))
	require.NoError(t, err)
	assert.Len(t, v, 0)
	assert.True(t, deadline.Equal(d))
}

func TestEntryPastYear2106(t *testing.T) {
	deadline := time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
	_, d, err := DecodeEntry(EncodeEntry(deadline, []byte("[]")))
	require.NoError(t, err)
	assert.True(t, deadline.Equal(d))
}

func TestDecodeEntryRejectsBadInput(t *testing.T) {
	good := EncodeEntry(time.Now(), []byte("[]"))
	unknownFormat := append([]byte{}, good...)
	unknownFormat[0] = 9

	for name, b := range map[string][]byte{
		"empty":          nil,
		"short":          good[:5],
		"unknown format": unknownFormat,
	} {
		_, _, err := DecodeEntry(b)
		assert.Equal(t, ErrBadEntry, err, name)
	}
}

func TestReviewsKey(t *testing.T) {
	assert.Equal(t, "placereviewsv1|ChIJN1t_tDeuEmsRUsoyG83frY4", NewReviewsKey("ChIJN1t_tDeuEmsRUsoyG83frY4").Key())
}
