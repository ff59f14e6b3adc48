// Package model defines shared data types used across the GE market data
// tools.
//
// Conventions:
//   - Prices: int64 whole coins (the exchange quotes integer prices)
//   - Dates: time.Time truncated to UTC midnight, stored as DATE
//   - Volume: *int64, nil when the exchange reports no figure
package model
