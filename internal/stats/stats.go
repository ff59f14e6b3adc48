// Package stats computes per-item price aggregates over a window of daily
// observations.
package stats

import (
	"math"
	"sort"

	"github.com/rfoster/ge-market-data/internal/model"
)

// ItemStats holds one item's aggregates over the loaded window.
type ItemStats struct {
	ItemID int64
	Name   string

	CurrentPrice float64
	PrevPrice    float64

	AvgVolume float64
	StdDev    float64

	Q10 float64
	Q50 float64
	Q90 float64

	DataPoints int
	GELimit    int64

	PriceTrend      float64 // Least-squares slope; positive = rising
	OutliersRemoved int
}

// Build groups snapshots by item and computes per-item aggregates. The input
// must be ordered by date ascending (the store query guarantees this).
// Results are ordered by item id.
func Build(snaps []model.ItemSnapshot) []ItemStats {
	byItem := make(map[int64][]model.ItemSnapshot)
	for _, s := range snaps {
		byItem[s.ItemID] = append(byItem[s.ItemID], s)
	}

	ids := make([]int64, 0, len(byItem))
	for id := range byItem {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]ItemStats, 0, len(ids))
	for _, id := range ids {
		results = append(results, buildOne(id, byItem[id]))
	}
	return results
}

func buildOne(id int64, records []model.ItemSnapshot) ItemStats {
	prices := make([]float64, len(records))
	volumes := make([]float64, len(records))
	for i, r := range records {
		prices[i] = float64(r.Price)
		volumes[i] = float64(r.Volume)
	}

	current := records[len(records)-1]
	prev := float64(current.Price)
	if len(records) > 1 {
		prev = float64(records[len(records)-2].Price)
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	// Filter DXP/update spikes before fitting the trend.
	filtered, removed := removeOutliers(sorted)

	trendInput := prices
	if len(filtered) >= 3 && removed > 0 {
		trendInput = filtered
	}
	trend := 0.0
	if len(trendInput) >= 3 {
		trend = slope(trendInput)
	}

	return ItemStats{
		ItemID:          id,
		Name:            current.Name,
		CurrentPrice:    float64(current.Price),
		PrevPrice:       prev,
		AvgVolume:       mean(volumes),
		StdDev:          stdDev(prices),
		Q10:             Quantile(sorted, 0.10),
		Q50:             Quantile(sorted, 0.50),
		Q90:             Quantile(sorted, 0.90),
		DataPoints:      len(records),
		GELimit:         current.GELimit,
		PriceTrend:      trend,
		OutliersRemoved: removed,
	}
}

// Quantile returns the q-th quantile of an ascending-sorted slice using
// nearest-rank interpolation.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Round(float64(len(sorted)-1) * q))
	return sorted[idx]
}

// removeOutliers drops values outside 1.5 IQR of the quartiles. Small
// samples pass through untouched, and if filtering would discard more than
// 30% of the data the original slice is kept instead.
func removeOutliers(sorted []float64) ([]float64, int) {
	if len(sorted) < 10 {
		return sorted, 0
	}

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	filtered := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if v >= lower && v <= upper {
			filtered = append(filtered, v)
		}
	}

	removed := len(sorted) - len(filtered)
	if len(filtered) < len(sorted)*7/10 {
		return sorted, 0
	}
	return filtered, removed
}

// slope fits a least-squares line over the values indexed 0..n-1 and returns
// its gradient.
func slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	xMean := (n - 1) / 2
	yMean := mean(values)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}

	if den == 0 {
		return 0
	}
	return num / den
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the sample standard deviation.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
