package api

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONParams(t *testing.T) {
	params, err := readJSONParams(strings.NewReader(`{
		"name": "Bled",
		"weight": 5.25,
		"coordinates": [14.1146, 46.3683],
		"users": ["a@example.com", "b@example.com"],
		"public": true,
		"nested": {"ignored": 1},
		"empty": null
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Bled", params.Get("name"))
	assert.Equal(t, "5.25", params.Get("weight"))
	assert.Equal(t, "14.1146,46.3683", params.Get("coordinates"))
	assert.Equal(t, "a@example.com,b@example.com", params.Get("users"))
	assert.Equal(t, "true", params.Get("public"))
	assert.False(t, params.Has("nested"))
	assert.False(t, params.Has("empty"))

	params, err = readJSONParams(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = readJSONParams(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-10-19T06:30:00Z", time.Date(2023, 10, 19, 6, 30, 0, 0, time.UTC)},
		{"2023-10-19T06:30:00+02:00", time.Date(2023, 10, 19, 4, 30, 0, 0, time.UTC)},
		{"2023-10-19T06:30", time.Date(2023, 10, 19, 6, 30, 0, 0, time.UTC)},
		{"2023-10-19", time.Date(2023, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := parseTime("19.10.2023")
	assert.Error(t, err)
}

func TestParseCoordinates(t *testing.T) {
	c, err := parseCoordinates("14.1146, 46.3683")
	require.NoError(t, err)
	assert.Equal(t, []float64{14.1146, 46.3683}, c)

	c, err = parseCoordinates("")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = parseCoordinates("14.1")
	assert.Error(t, err)
	_, err = parseCoordinates("14.1,95")
	assert.Error(t, err)
}

func TestQueryFloat(t *testing.T) {
	q := url.Values{"distance": {"12.5"}, "inf": {"Inf"}, "nan": {"NaN"}, "huge": {"1e400"}}

	v, err := queryFloat(q, "distance", 5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = queryFloat(q, "missing", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	for _, name := range []string{"inf", "nan", "huge"} {
		_, err := queryFloat(q, name, 5)
		assert.Error(t, err, name)
	}

	_, err = parseOptionalFloat("weight", "-Inf")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, splitList(" a@example.com,,b@example.com "))
	assert.Nil(t, splitList(""))
}
