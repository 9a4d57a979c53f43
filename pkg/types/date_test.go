package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", d.String())

	_, err = ParseDate("15.01.2026")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.January, 30)

	assert.Equal(t, "2026-02-01", d.AddDays(2).String())
	assert.Equal(t, "2026-01-29", d.AddDays(-1).String())
	assert.Equal(t, 2, d.DaysUntil(NewDate(2026, time.February, 1)))
	assert.Equal(t, -1, d.DaysUntil(NewDate(2026, time.January, 29)))
}

func TestDateComparison(t *testing.T) {
	a := NewDate(2026, time.March, 1)
	b := NewDate(2026, time.March, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(NewDate(2026, time.March, 1)))

	assert.Equal(t, a, MinDate(a, b))
	assert.Equal(t, b, MaxDate(a, b))
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.July, 4)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-07-04"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-07-04"`), &parsed))
	assert.True(t, d.Equal(parsed))

	assert.Error(t, json.Unmarshal([]byte(`"04.07.2026"`), &parsed))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, time.May, 9, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2026-05-09", d.String())

	require.NoError(t, d.Scan([]byte("2026-05-10")))
	assert.Equal(t, "2026-05-10", d.String())

	require.NoError(t, d.Scan("2026-05-11"))
	assert.Equal(t, "2026-05-11", d.String())

	assert.Error(t, d.Scan(42))
}
