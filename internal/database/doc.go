// Package database provides connection pool management for PostgreSQL.
//
// A single pool backs both the item catalog and the price history tables.
package database
