package inventory

import "fmt"

// SimulationResult summarizes a day-by-day replay of a reorder-point
// policy against an observed demand series.
type SimulationResult struct {
	Days                 int
	EndingInventory      float64
	AverageInventory     float64
	StockoutDays         int
	StockoutRate         float64
	FillRate             float64
	OrdersPlaced         int
	UnitsOrdered         float64
	DemandServed         float64
	DemandTotal          float64
	ServiceLevelAchieved float64
}

// Simulate replays dailyDemands against the policy starting from
// initialInventory. An order of EconomicOrderQuantity units is placed
// whenever the inventory position falls to the reorder point or below,
// and arrives after leadTimeDays full days. Demand that cannot be served
// on a day is lost, not backordered.
func Simulate(p Policy, dailyDemands []float64, leadTimeDays int, initialInventory float64) (SimulationResult, error) {
	if len(dailyDemands) == 0 {
		return SimulationResult{}, fmt.Errorf("simulate: demand series is empty")
	}
	if leadTimeDays < 0 {
		return SimulationResult{}, fmt.Errorf("simulate: lead time must be non-negative")
	}

	onHand := initialInventory
	var pending []int // arrival day of each outstanding order

	var (
		invSum    float64
		stockouts int
		served    float64
		total     float64
		orders    int
		ordered   float64
	)

	for day, demand := range dailyDemands {
		// Receive orders due today.
		due := pending[:0]
		for _, arrival := range pending {
			if arrival == day {
				onHand += p.EconomicOrderQuantity
			} else {
				due = append(due, arrival)
			}
		}
		pending = due

		total += demand
		if demand > onHand {
			served += onHand
			onHand = 0
			stockouts++
		} else {
			served += demand
			onHand -= demand
		}

		position := onHand + float64(len(pending))*p.EconomicOrderQuantity
		if position <= p.ReorderPoint {
			pending = append(pending, day+1+leadTimeDays)
			orders++
			ordered += p.EconomicOrderQuantity
		}

		invSum += onHand
	}

	days := len(dailyDemands)
	res := SimulationResult{
		Days:             days,
		EndingInventory:  round2(onHand),
		AverageInventory: round2(invSum / float64(days)),
		StockoutDays:     stockouts,
		StockoutRate:     round4(float64(stockouts) / float64(days)),
		OrdersPlaced:     orders,
		UnitsOrdered:     round2(ordered),
		DemandServed:     round2(served),
		DemandTotal:      round2(total),
	}
	if total > 0 {
		res.FillRate = round4(served / total)
	} else {
		res.FillRate = 1
	}
	res.ServiceLevelAchieved = round4(1 - res.StockoutRate)
	return res, nil
}
