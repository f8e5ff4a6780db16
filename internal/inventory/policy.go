// Package inventory implements closed-form inventory policy calculations:
// economic order quantity, safety stock, reorder point, a reorder-point
// simulation, and ABC classification.
package inventory

import (
	"fmt"
	"math"
)

// Calculator holds the cost and service-level parameters shared by the
// policy formulas. One Calculator may be used concurrently.
type Calculator struct {
	holdingCostRate float64
	orderingCost    float64
	serviceLevel    float64
}

// NewCalculator configures a Calculator. holdingCostRate is the annual
// holding cost as a fraction of unit cost, orderingCost the fixed cost
// per order, serviceLevel the target fill probability in (0,1).
func NewCalculator(holdingCostRate, orderingCost, serviceLevel float64) *Calculator {
	return &Calculator{
		holdingCostRate: holdingCostRate,
		orderingCost:    orderingCost,
		serviceLevel:    serviceLevel,
	}
}

// Policy is the combined inventory policy for one item.
type Policy struct {
	EconomicOrderQuantity float64
	ReorderPoint          float64
	SafetyStock           float64
	AverageInventory      float64
	TotalAnnualCost       float64
	ServiceLevel          float64
	NumberOfOrders        int
}

// EOQ returns the economic order quantity sqrt(2*D*S / H) with
// H = unitCost * holdingCostRate.
func (c *Calculator) EOQ(annualDemand, unitCost float64) (float64, error) {
	if annualDemand <= 0 || unitCost <= 0 {
		return 0, fmt.Errorf("eoq: demand and unit cost must be positive")
	}
	h := unitCost * c.holdingCostRate
	return math.Sqrt((2 * annualDemand * c.orderingCost) / h), nil
}

// SafetyStock returns z * sigma * sqrt(leadTimeDays) where z is the
// standard normal quantile for the configured service level and sigma is
// the daily demand standard deviation.
func (c *Calculator) SafetyStock(demandStd, leadTimeDays float64) float64 {
	return zScore(c.serviceLevel) * demandStd * math.Sqrt(leadTimeDays)
}

// ReorderPoint returns avg daily demand * lead time + safety stock.
func (c *Calculator) ReorderPoint(avgDailyDemand, leadTimeDays, safetyStock float64) float64 {
	return avgDailyDemand*leadTimeDays + safetyStock
}

// OptimizePolicy composes EOQ, safety stock, and reorder point into a
// full policy with annual cost. demandStd is the annual demand standard
// deviation; daily figures are derived assuming 365 selling days.
func (c *Calculator) OptimizePolicy(annualDemand, unitCost, demandStd, leadTimeDays float64) (Policy, error) {
	eoq, err := c.EOQ(annualDemand, unitCost)
	if err != nil {
		return Policy{}, fmt.Errorf("optimize policy: %w", err)
	}

	dailyMean := annualDemand / 365
	dailyStd := demandStd / math.Sqrt(365)

	ss := c.SafetyStock(dailyStd, leadTimeDays)
	rop := c.ReorderPoint(dailyMean, leadTimeDays, ss)

	orders := annualDemand / eoq
	avgInventory := eoq/2 + ss
	holding := avgInventory * unitCost * c.holdingCostRate
	ordering := orders * c.orderingCost

	return Policy{
		EconomicOrderQuantity: round2(eoq),
		ReorderPoint:          round2(rop),
		SafetyStock:           round2(ss),
		AverageInventory:      round2(avgInventory),
		TotalAnnualCost:       round2(holding + ordering),
		ServiceLevel:          c.serviceLevel,
		NumberOfOrders:        int(math.Ceil(orders)),
	}, nil
}

// zScore is the standard normal quantile Phi^-1(p) for p in (0,1).
func zScore(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
