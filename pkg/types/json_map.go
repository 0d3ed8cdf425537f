package types

// JSONMap holds opaque jsonb payloads such as gateway payment details.
type JSONMap map[string]any
