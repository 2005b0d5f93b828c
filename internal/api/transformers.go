package api

import "github.com/danielgtaylor/huma/v2"

// Transformers returns all response transformers used by the API.
// Transformers modify responses after handlers execute but before serialization.
// They are registered globally in the Huma config and run on all API responses.
//
// IMPORTANT: Order matters. Transformers execute sequentially, with each transformer's
// output becoming the next transformer's input.
//
// Each transformer checks response types before operating and passes through responses it doesn't handle.
//
// Current transformers:
//   - fleetDetailTransformer: Reduces fleet status responses based on the ?detail= query parameter.
func Transformers() []huma.Transformer {
	return []huma.Transformer{
		fleetDetailTransformer,
	}
}
