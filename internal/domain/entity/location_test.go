package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeLocation_FallbackCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil payload", raw: nil},
		{name: "empty bytes", raw: []byte{}},
		{name: "malformed json", raw: "{not-json"},
		{name: "unsupported type", raw: 42},
		{name: "nil location pointer", raw: (*Location)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeLocation(tt.raw)
			assert.Equal(t, FallbackLocation(), got)
			assert.Equal(t, UnknownAddress, got.Address)
		})
	}
}

func TestDecodeLocation_LooseShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want Location
	}{
		{
			name: "json string payload",
			raw:  `{"lat": 18.52, "lng": 73.85, "address": "Pune"}`,
			want: Location{Lat: 18.52, Lng: 73.85, Address: "Pune"},
		},
		{
			name: "string coordinates",
			raw:  `{"lat": "18.52", "lng": "73.85", "address": "Pune"}`,
			want: Location{Lat: 18.52, Lng: 73.85, Address: "Pune"},
		},
		{
			name: "missing address",
			raw:  `{"lat": 18.52, "lng": 73.85}`,
			want: Location{Lat: 18.52, Lng: 73.85, Address: UnknownAddress},
		},
		{
			name: "missing coordinates",
			raw:  `{"address": "Mumbai"}`,
			want: Location{Lat: 0, Lng: 0, Address: "Mumbai"},
		},
		{
			name: "unparseable coordinate coerces to zero",
			raw:  `{"lat": "north", "lng": 73.85, "address": "Pune"}`,
			want: Location{Lat: 0, Lng: 73.85, Address: "Pune"},
		},
		{
			name: "map payload",
			raw:  map[string]any{"lat": 18.52, "lng": 73.85, "address": "Pune"},
			want: Location{Lat: 18.52, Lng: 73.85, Address: "Pune"},
		},
		{
			name: "non-string address coerces to unknown",
			raw:  `{"lat": 1, "lng": 2, "address": {"city": "Pune"}}`,
			want: Location{Lat: 1, Lng: 2, Address: UnknownAddress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DecodeLocation(tt.raw))
		})
	}
}

func TestDecodeLocation_Idempotent(t *testing.T) {
	t.Parallel()

	canonical := Location{Lat: 18.52, Lng: 73.85, Address: "Pune"}
	assert.Equal(t, canonical, DecodeLocation(canonical))
	assert.Equal(t, canonical, DecodeLocation(DecodeLocation(canonical)))

	// The fallback is itself a fixed point.
	assert.Equal(t, FallbackLocation(), DecodeLocation(FallbackLocation()))
}

func TestDecodeLocation_CanonicalizesEmptyAddress(t *testing.T) {
	t.Parallel()

	got := DecodeLocation(Location{Lat: 1, Lng: 2})
	assert.Equal(t, UnknownAddress, got.Address)
	assert.Equal(t, 1.0, got.Lat)
}
