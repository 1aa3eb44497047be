// Package vault is the only place where stored credentials are decrypted.
// The OAuth callback writes through it; the publishing pipeline reads
// through it.
package vault
