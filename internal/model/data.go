package model

// EngramData is the full in-memory aggregate for a single session record,
// ready to be stored or returned to a caller.
type EngramData struct {
	Manifest   Manifest
	Intent     Intent
	Transcript Transcript
	Operations Operations
	Lineage    Lineage
}
