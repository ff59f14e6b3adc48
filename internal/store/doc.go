// Package store implements the persistence layer over PostgreSQL.
//
// Tables:
//   - items(id, name, ge_limit): the exchange catalog, insert-or-update
//   - history(item_id, record_date, price, volume): daily observations,
//     insert-or-ignore on the composite primary key
//
// Writes are serialized behind a single mutex spanning exactly one batch
// insert; the store never sees concurrent writers.
package store
