// Package normalize converts raw API history records into calendar-day
// observations.
package normalize

import (
	"time"

	"github.com/rfoster/ge-market-data/internal/model"
)

// Records converts an item's raw history records to observations keyed by
// UTC calendar day. Records missing a timestamp or price are dropped rather
// than failing the item; the dropped count is returned for accounting. Volume
// is carried through as-is, including its absence.
func Records(itemID int64, records []model.RawRecord) (obs []model.Observation, dropped int) {
	obs = make([]model.Observation, 0, len(records))

	for _, r := range records {
		if r.Timestamp == nil || r.Price == nil {
			dropped++
			continue
		}

		obs = append(obs, model.Observation{
			ItemID: itemID,
			Date:   Day(*r.Timestamp),
			Price:  *r.Price,
			Volume: r.Volume,
		})
	}

	return obs, dropped
}

// Day converts a millisecond epoch timestamp to its UTC calendar day.
// The same convention is applied by the daily collector so backfilled and
// collected rows never disagree about which day a price belongs to.
func Day(epochMillis int64) time.Time {
	t := time.UnixMilli(epochMillis).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
