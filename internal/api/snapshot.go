package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rfoster/ge-market-data/internal/model"
)

// DailySnapshot fetches the full exchange dump: one entry per item with its
// current name, price, buy limit, and traded volume.
//
// The dump mixes item entries with metadata keys (update notices and the
// like) whose values are not objects; those are skipped, as are entries
// without a price.
func (c *Client) DailySnapshot(ctx context.Context) (map[int64]model.SnapshotEntry, error) {
	var payload map[string]json.RawMessage
	if err := c.get(ctx, c.snapshotURL, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch daily snapshot: %w", err)
	}

	entries := make(map[int64]model.SnapshotEntry, len(payload))
	for key, raw := range payload {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}

		var entry model.SnapshotEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Debug("skipping non-item dump entry", "key", key)
			continue
		}
		if entry.Price == nil {
			continue
		}

		entries[id] = entry
	}

	return entries, nil
}
