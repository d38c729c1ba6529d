// Package display renders command outcomes for people and machines.
//
// Three renderers share one interface: plain text for pipes and NO_COLOR,
// a styled terminal renderer built on lipgloss and pterm tables, and JSON.
package display
