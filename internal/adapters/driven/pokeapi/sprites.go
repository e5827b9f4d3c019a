package pokeapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// decodeSprites reads a sprites value that is either a JSON object or a
// JSON string containing an object.
func decodeSprites(raw json.RawMessage) (domain.Sprites, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.Sprites{}, nil
	}

	var sprites domain.Sprites
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &sprites); err != nil {
			return domain.Sprites{}, fmt.Errorf("decode sprites object: %w", err)
		}
		return sprites, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return domain.Sprites{}, fmt.Errorf("decode sprites: %w", err)
	}
	if encoded == "" || encoded == "null" {
		return domain.Sprites{}, nil
	}
	if err := json.Unmarshal([]byte(encoded), &sprites); err != nil {
		return domain.Sprites{}, fmt.Errorf("decode sprites string: %w", err)
	}
	return sprites, nil
}

// toPokemon converts the first matching row into a domain value.
func toPokemon(row pokemonRow) (domain.Pokemon, error) {
	p := domain.Pokemon{ID: row.ID, Name: row.Name}
	if len(row.Sprites) == 0 {
		return p, nil
	}
	sprites, err := decodeSprites(row.Sprites[0].Sprites)
	if err != nil {
		return domain.Pokemon{}, err
	}
	p.Sprites = sprites
	return p, nil
}
