package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// DecodeGranuleSet parses a granule-set message payload.
//
// The value and coordinate fields are nested JSON arrays whose rank is only
// known at runtime (1-3 for values, 1-2 for coordinates), so decoding walks
// the document with gjson instead of unmarshalling into static structs.
// Shape validation beyond rectangularity is left to the sampler, which
// reports MalformedGridError with full shape context.
//
// Per-granule failures follow the same degradation policy as sampling:
// a malformed secondary granule (or one with an unrecognized product tag)
// is logged and skipped, while a malformed primary (HCHO) granule fails
// the whole decode.
func DecodeGranuleSet(data []byte, logger *slog.Logger) (GranuleSet, error) {
	if !gjson.ValidBytes(data) {
		return GranuleSet{}, errors.New("decode granule set: invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	set := GranuleSet{
		RequestID:  doc.Get("request_id").String(),
		SampleStep: int(doc.Get("sample_step").Int()),
		Tolerance:  doc.Get("tolerance").Float(),
	}
	if obs := doc.Get("observed_at"); obs.Exists() {
		t, err := time.Parse(time.RFC3339, obs.String())
		if err != nil {
			return GranuleSet{}, fmt.Errorf("decode granule set: observed_at: %w", err)
		}
		set.ObservedAt = t
	}

	granules := doc.Get("granules")
	if !granules.IsArray() {
		return GranuleSet{}, errors.New("decode granule set: missing granules array")
	}

	var decodeErr error
	granules.ForEach(func(_, g gjson.Result) bool {
		granule, err := decodeGranule(g)
		if err != nil {
			if Product(g.Get("product").String()) == ProductHCHO {
				decodeErr = err
				return false
			}
			logger.Warn("skipping undecodable secondary granule",
				"product", g.Get("product").String(), "error", err)
			return true
		}
		set.Granules = append(set.Granules, granule)
		return true
	})
	if decodeErr != nil {
		return GranuleSet{}, decodeErr
	}
	return set, nil
}

func decodeGranule(g gjson.Result) (Granule, error) {
	product, err := ParseProduct(g.Get("product").String())
	if err != nil {
		return Granule{}, err
	}

	values, err := decodeArray(g.Get("values"), product, "values")
	if err != nil {
		return Granule{}, err
	}
	lat, err := decodeArray(g.Get("latitude"), product, "latitude")
	if err != nil {
		return Granule{}, err
	}
	lon, err := decodeArray(g.Get("longitude"), product, "longitude")
	if err != nil {
		return Granule{}, err
	}

	return Granule{
		Product:   product,
		Values:    values,
		Latitude:  lat,
		Longitude: lon,
		FillValue: g.Get("fill_value").Float(), // 0 falls back to TempoFillValue
	}, nil
}

// decodeArray flattens a nested JSON array of arbitrary rank into a
// row-major Array, verifying rectangularity along the way.
func decodeArray(r gjson.Result, product Product, field string) (Array, error) {
	if !r.IsArray() {
		return Array{}, fmt.Errorf("decode %s granule: %s is not an array", product, field)
	}

	var a Array
	if err := flattenInto(&a, r, 0, field, product); err != nil {
		return Array{}, err
	}
	return a, nil
}

func flattenInto(a *Array, r gjson.Result, depth int, field string, product Product) error {
	elems := r.Array()
	if depth == len(a.Shape) {
		a.Shape = append(a.Shape, len(elems))
	} else if a.Shape[depth] != len(elems) {
		return fmt.Errorf("decode %s granule: %s is ragged at depth %d", product, field, depth)
	}

	for _, e := range elems {
		switch {
		case e.IsArray():
			if err := flattenInto(a, e, depth+1, field, product); err != nil {
				return err
			}
		case e.Type == gjson.Number || e.Type == gjson.Null:
			// Decoders emit null for NaN, which JSON cannot carry.
			// The sampler filters NaN alongside fill values.
			if e.Type == gjson.Null {
				a.Data = append(a.Data, math.NaN())
			} else {
				a.Data = append(a.Data, e.Float())
			}
		default:
			return fmt.Errorf("decode %s granule: %s contains non-numeric element %s", product, field, e.Raw)
		}
	}
	return nil
}
