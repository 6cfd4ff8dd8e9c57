// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. Schema migrations live in the
// migrations subpackage and are applied with goose.
package postgres
