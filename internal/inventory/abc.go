package inventory

import "sort"

// Item is one SKU submitted for ABC classification.
type Item struct {
	Name         string
	AnnualDemand float64
	UnitCost     float64
}

// ClassifiedItem is an Item annotated with its share of total annual
// value and its assigned category.
type ClassifiedItem struct {
	Item
	AnnualValue       float64
	ValuePercent      float64
	CumulativePercent float64
	Category          string
}

// ABCSummary gives per-category counts and value shares.
type ABCSummary struct {
	CountA        int
	CountB        int
	CountC        int
	ValueSharePct map[string]float64
}

// ABCResult is the full classification, items sorted by descending
// annual value.
type ABCResult struct {
	Items   []ClassifiedItem
	Summary ABCSummary
}

// Classify performs Pareto ABC analysis: items are ranked by annual
// value (demand * unit cost) and assigned A while the running share is
// at or below 80%, B up to 95%, and C beyond. Ties keep input order.
func Classify(items []Item) ABCResult {
	out := make([]ClassifiedItem, len(items))
	total := 0.0
	for i, it := range items {
		v := it.AnnualDemand * it.UnitCost
		out[i] = ClassifiedItem{Item: it, AnnualValue: round2(v)}
		total += v
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnnualValue > out[j].AnnualValue
	})

	shares := map[string]float64{"A": 0, "B": 0, "C": 0}
	var summary ABCSummary
	cum := 0.0
	for i := range out {
		pct := 0.0
		if total > 0 {
			pct = out[i].AnnualValue / total * 100
		}
		cum += pct
		out[i].ValuePercent = round2(pct)
		out[i].CumulativePercent = round2(cum)
		switch {
		case cum <= 80:
			out[i].Category = "A"
			summary.CountA++
		case cum <= 95:
			out[i].Category = "B"
			summary.CountB++
		default:
			out[i].Category = "C"
			summary.CountC++
		}
		shares[out[i].Category] += pct
	}
	for k, v := range shares {
		shares[k] = round2(v)
	}
	summary.ValueSharePct = shares
	return ABCResult{Items: out, Summary: summary}
}
