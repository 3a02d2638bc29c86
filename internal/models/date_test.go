package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-19 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("19.10.2026")
	assert.Error(t, err)
}

func TestDateOrdering(t *testing.T) {
	d := NewDate(2026, 12, 31)
	next := d.AddDays(1)

	assert.Equal(t, "2027-01-01", next.String())
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
	assert.True(t, d.Equal(NewDate(2026, 12, 31)))
	assert.Equal(t, 1, next.DaysSince(d))
}

func TestDateOfKeepsLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 10, 19, 1, 30, 0, 0, loc)
	assert.Equal(t, "2026-10-19", DateOf(ts).String())
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Day  Date `json:"day"`
		None Date `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2026-10-19","none":null}`), &payload))
	assert.Equal(t, "2026-10-19", payload.Day.String())
	assert.True(t, payload.None.IsZero())

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2026-10-19","none":null}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"day":"tomorrow"}`), &payload))
}

func TestDateSQL(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-19", d.String())

	require.NoError(t, d.Scan([]byte("2026-10-20T00:00:00Z")))
	assert.Equal(t, "2026-10-20", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := NewDate(2026, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", v)

	assert.Error(t, d.Scan(42))
}
