package api

import (
	"fmt"

	"chainopt/internal/model"
)

const maxLocations = 10000

func validateLocation(kind string, i int, loc model.LocationIn) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return fmt.Errorf("%s[%d]: lat %v outside [-90,90]", kind, i, loc.Lat)
	}
	if loc.Lon < -180 || loc.Lon > 180 {
		return fmt.Errorf("%s[%d]: lon %v outside [-180,180]", kind, i, loc.Lon)
	}
	if loc.Demand < 0 {
		return fmt.Errorf("%s[%d]: demand must be >= 0", kind, i)
	}
	return nil
}

func validateRoutingRequest(req *model.RoutingRequest) error {
	if err := validateLocation("depot", 0, req.Depot); err != nil {
		return err
	}
	if len(req.Customers) > maxLocations {
		return fmt.Errorf("customers: at most %d locations per request", maxLocations)
	}
	for i, c := range req.Customers {
		if err := validateLocation("customers", i, c); err != nil {
			return err
		}
	}
	if req.VehicleCapacity < 0 {
		return fmt.Errorf("vehicleCapacity must be >= 0")
	}
	if req.MaxDistance < 0 {
		return fmt.Errorf("maxDistance must be >= 0")
	}
	return nil
}

func validateShortestPathRequest(req *model.ShortestPathRequest) error {
	if len(req.Locations) == 0 {
		return fmt.Errorf("locations must not be empty")
	}
	if len(req.Locations) > maxLocations {
		return fmt.Errorf("locations: at most %d per request", maxLocations)
	}
	for i, loc := range req.Locations {
		if err := validateLocation("locations", i, loc); err != nil {
			return err
		}
	}
	if req.Start < 0 || req.Start >= len(req.Locations) {
		return fmt.Errorf("start index %d out of range", req.Start)
	}
	if req.End < 0 || req.End >= len(req.Locations) {
		return fmt.Errorf("end index %d out of range", req.End)
	}
	return nil
}

func validateInventoryRequest(req *model.InventoryRequest) error {
	if req.AnnualDemand <= 0 {
		return fmt.Errorf("annualDemand must be > 0")
	}
	if req.UnitCost <= 0 {
		return fmt.Errorf("unitCost must be > 0")
	}
	if req.DemandStdDev < 0 {
		return fmt.Errorf("demandStdDev must be >= 0")
	}
	if req.LeadTimeDays < 0 {
		return fmt.Errorf("leadTimeDays must be >= 0")
	}
	if req.ServiceLevel != 0 && (req.ServiceLevel <= 0 || req.ServiceLevel >= 1) {
		return fmt.Errorf("serviceLevel must be in (0,1)")
	}
	if req.HoldingCostRate < 0 || req.OrderingCost < 0 {
		return fmt.Errorf("cost parameters must be >= 0")
	}
	return nil
}

func validateBatchRequest(req *model.BatchRequest, maxProblems int) error {
	if len(req.Problems) == 0 {
		return fmt.Errorf("problems must not be empty")
	}
	if maxProblems > 0 && len(req.Problems) > maxProblems {
		return fmt.Errorf("at most %d problems per batch", maxProblems)
	}
	if req.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	for i := range req.Problems {
		if err := validateRoutingRequest(&req.Problems[i]); err != nil {
			return fmt.Errorf("problems[%d]: %w", i, err)
		}
	}
	return nil
}

func validateSubscriptionRequest(req *model.SubscriptionRequest) error {
	if req.URL == "" {
		return fmt.Errorf("url is required")
	}
	if len(req.Events) == 0 {
		return fmt.Errorf("events must not be empty")
	}
	return nil
}
