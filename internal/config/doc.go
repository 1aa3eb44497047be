// Package config loads and validates environment configuration at startup.
// The loaded struct is passed into constructors explicitly; nothing in the
// application reads the environment after Load returns.
package config
