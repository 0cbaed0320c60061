// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "encoding/json"

// UnknownAddress is the address substituted when a stored location payload
// is absent or cannot be decoded.
const UnknownAddress = "Unknown location"

// Location is the canonical form of a donation's pickup point.
// Every read path decodes stored payloads into this shape exactly once;
// nothing downstream ever sees the raw stored value.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// FallbackLocation returns the safe default used for absent or malformed
// location payloads.
func FallbackLocation() Location {
	return Location{Lat: 0, Lng: 0, Address: UnknownAddress}
}

// rawLocation accepts the loose shapes historical records were stored in:
// numbers or numeric strings for coordinates, any JSON value for the address.
type rawLocation struct {
	Lat     any `json:"lat"`
	Lng     any `json:"lng"`
	Address any `json:"address"`
}

// DecodeLocation normalizes a stored location payload into its canonical form.
// The payload may be a JSON-encoded string, a raw JSONB byte slice, an
// already-decoded Location, or absent entirely. The result is always
// well-formed: missing or invalid coordinates coerce to 0 and a missing
// address coerces to UnknownAddress. Decoding never fails visibly and is
// idempotent: decoding an already-canonical value returns it unchanged.
func DecodeLocation(raw any) Location {
	switch v := raw.(type) {
	case nil:
		return FallbackLocation()
	case Location:
		return canonicalize(v)
	case *Location:
		if v == nil {
			return FallbackLocation()
		}

		return canonicalize(*v)
	case string:
		return decodeJSON([]byte(v))
	case []byte:
		return decodeJSON(v)
	case map[string]any:
		return Location{
			Lat:     coerceFloat(v["lat"]),
			Lng:     coerceFloat(v["lng"]),
			Address: coerceAddress(v["address"]),
		}
	default:
		return FallbackLocation()
	}
}

func decodeJSON(data []byte) Location {
	if len(data) == 0 {
		return FallbackLocation()
	}

	var parsed rawLocation
	if err := json.Unmarshal(data, &parsed); err != nil {
		return FallbackLocation()
	}

	return Location{
		Lat:     coerceFloat(parsed.Lat),
		Lng:     coerceFloat(parsed.Lng),
		Address: coerceAddress(parsed.Address),
	}
}

func canonicalize(loc Location) Location {
	if loc.Address == "" {
		loc.Address = UnknownAddress
	}

	return loc
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}

		return f
	case string:
		var f float64
		if err := json.Unmarshal([]byte(n), &f); err != nil {
			return 0
		}

		return f
	default:
		return 0
	}
}

func coerceAddress(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return UnknownAddress
	}

	return s
}
