// Package database provides the PostgreSQL connection pool, schema
// migrations, and the credential repository.
package database
