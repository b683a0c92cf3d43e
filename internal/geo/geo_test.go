package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	ljubljana := Point{Lng: 14.5058, Lat: 46.0569}
	bled := Point{Lng: 14.1146, Lat: 46.3683}

	assert.InDelta(t, 0, Distance(ljubljana, ljubljana), 1e-6)

	// Roughly 45 km as the crow flies.
	d := Distance(ljubljana, bled)
	assert.InDelta(t, 45000, d, 2000)
	assert.InDelta(t, d, Distance(bled, ljubljana), 1e-6)
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Point
		wantErr bool
	}{
		{name: "plain", in: "15.272580993,46.2195704036", want: Point{Lng: 15.272580993, Lat: 46.2195704036}},
		{name: "spaces", in: " 15.5 , 46.1 ", want: Point{Lng: 15.5, Lat: 46.1}},
		{name: "one element", in: "15.5", wantErr: true},
		{name: "three elements", in: "1,2,3", wantErr: true},
		{name: "not a number", in: "a,2", wantErr: true},
		{name: "latitude out of range", in: "15,95", wantErr: true},
		{name: "longitude out of range", in: "181,45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinates(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Lng, got.Lng, 1e-9)
			assert.InDelta(t, tt.want.Lat, got.Lat, 1e-9)
		})
	}
}

func TestFromCoordinates(t *testing.T) {
	p, err := FromCoordinates([]float64{14.5, 46.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{14.5, 46.0}, p.Coordinates())

	_, err = FromCoordinates([]float64{14.5})
	assert.Error(t, err)
}
