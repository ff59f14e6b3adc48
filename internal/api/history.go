package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rfoster/ge-market-data/internal/model"
)

// ItemHistory fetches the complete daily price history for one item.
//
// The endpoint responds with an object keyed by stringified item id. An
// absent key means the exchange has no history for the item; that is "no
// data", not an error, and returns an empty slice.
func (c *Client) ItemHistory(ctx context.Context, itemID int64) ([]model.RawRecord, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(itemID, 10))

	var payload map[string]json.RawMessage
	if err := c.get(ctx, c.historyURL, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch history for item %d: %w", itemID, err)
	}

	raw, ok := payload[strconv.FormatInt(itemID, 10)]
	if !ok {
		return nil, nil
	}

	var records []model.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode history for item %d: %w", itemID, err)
	}

	return records, nil
}
