// Package verify checks a deployed destination tree against its mapping.
//
// Every entry's destination must exist and be non-empty. Optionally it must
// match its source byte for byte, and .svg destinations must parse as XML
// with an <svg> root element carrying a viewBox.
package verify
