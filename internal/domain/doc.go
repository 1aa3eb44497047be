// Package domain holds the core types shared across the credential vault:
// platforms, stored credentials, and the repository contract.
package domain
