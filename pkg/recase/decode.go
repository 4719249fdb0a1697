package recase

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/sqlscript/pkg/core"
)

// Decode recases r and decodes it into out, which must be a pointer to a
// struct or map. Field names match case-insensitively, so a song_name
// column fills a SongName field; a `mapstructure` tag overrides the name.
func Decode(r *core.Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create row decoder: %w", err)
	}
	if err := dec.Decode(Keys(r).Map()); err != nil {
		return fmt.Errorf("failed to decode row: %w", err)
	}
	return nil
}

// DecodeAll decodes every row of a result into a new slice of T.
func DecodeAll[T any](rows []*core.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		var v T
		if err := Decode(r, &v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
