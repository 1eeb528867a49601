// Package domain defines the core value types shared by the ingestion,
// search, presentation and persistence layers.
package domain

// Record is one entry of the materials list: a numeric identifier and its
// free-text description.
//
// Description is normalized plain text: whitespace runs collapsed to a single
// space, no surrounding quote characters.
type Record struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
}
