package types

// ProductImage captures a catalog image reference. Upload handling is out of
// scope; only metadata is persisted.
type ProductImage struct {
	URL     string `json:"url" validate:"required,url"`
	AltText string `json:"alt_text,omitempty"`
}

// ProductImages is stored as a jsonb array on the product row.
type ProductImages []ProductImage
