// Package loader reads lookup-table and convolution-kernel documents.
//
// A document is YAML (JSON is accepted, being a YAML subset) with a root
// kind tag:
//
//	kind: lookup_table
//	name: invert
//	description: maps v to 255-v
//	table: [255, 254, ..., 0]    # exactly 256 entries in 0..255
//
//	kind: 2D_filter
//	name: box3
//	multiplier: 1
//	divisor: 9
//	offset: 0
//	kernel:
//	  - [1, 1, 1]
//	  - [1, 1, 1]
//	  - [1, 1, 1]
//
// Any other kind, a malformed table or a ragged kernel fails with
// imaging.ErrFormat.
package loader
