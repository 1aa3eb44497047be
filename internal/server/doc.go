// Package server wires the HTTP surface: the OAuth connect/callback flow,
// credential disconnect, and observability endpoints.
package server
