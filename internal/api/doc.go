// Package api provides the client for the exchange's public market data
// endpoints.
//
// Endpoints:
//   - History: GET <history_url>?id=<item_id>, an object keyed by stringified
//     item id holding an array of {timestamp(ms), price, volume?} records
//   - Daily dump: GET <snapshot_url>, an object keyed by stringified item id
//     holding {name, price, limit?, volume?}
//
// Neither endpoint requires authentication; the operator asks only for a
// descriptive User-Agent.
package api
