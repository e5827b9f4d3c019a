package pokeapi

import "encoding/json"

// pokemonByNameQuery selects one creature by exact name.
const pokemonByNameQuery = `query pokemonByName($nomeVariavel: String!) {
  pokemon_v2_pokemon(where: {name: {_eq: $nomeVariavel}}) {
    name
    id
    pokemon_v2_pokemonsprites {
      sprites
    }
  }
}`

// pingQuery is the cheapest valid query the endpoint answers.
const pingQuery = `query ping { __typename }`

// graphQLRequest is the POST body.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one entry of the top-level errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// pokemonResponse is the response envelope for pokemonByNameQuery.
type pokemonResponse struct {
	Data *struct {
		Pokemon []pokemonRow `json:"pokemon_v2_pokemon"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type pokemonRow struct {
	Name    string      `json:"name"`
	ID      int         `json:"id"`
	Sprites []spriteRow `json:"pokemon_v2_pokemonsprites"`
}

type spriteRow struct {
	Sprites json.RawMessage `json:"sprites"`
}

// pingResponse is the response envelope for pingQuery.
type pingResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphQLError `json:"errors"`
}
