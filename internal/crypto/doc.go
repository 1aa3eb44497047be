// Package crypto provides the symmetric encryption used for access tokens
// at rest. AES-256-GCM with a per-call random nonce; the nonce is prefixed
// to the ciphertext so the stored envelope is self-describing.
package crypto
