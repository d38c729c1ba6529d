// Package mapping turns a mapping definition file into a typed
// types.Mapping.
//
// The canonical on-disk shape is YAML, one key per category holding a list
// of source/dest pairs:
//
//	favicon:
//	  - source: icon.svg
//	    dest: icons/favicon.svg
//	wordmark:
//	  - source: logo.svg
//	    dest: logos/logo.svg
//
// YAML documents are decoded through yaml.Node so category and entry order
// survive. TOML files (arrays of tables keyed by category) and generic
// decoded values are accepted too; Go maps carry no order, so categories
// from those sources are sorted by name.
//
// Every structural problem is reported at this boundary as
// MALFORMED_MAPPING or MALFORMED_MAPPING_ENTRY, aggregated so one run shows
// all of them.
package mapping
