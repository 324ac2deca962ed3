package domain

import "time"

// ZoneTypeDelivery is the zone-type value that marks a serviceable row.
const ZoneTypeDelivery = "Delivery Zone"

// UnknownBranch is assigned to data rows that appear before any branch
// header in a report table.
const UnknownBranch = "Unknown"

// PincodeRow is one normalized row from the pincode report table.
type PincodeRow struct {
	// PinCode is the postal code the report was fetched for.
	PinCode string `json:"pin_code"`
	// BranchName is inherited from the closest branch-header row above.
	BranchName string `json:"branch_name"`
	// AreaName is the locality covered by the row.
	AreaName string `json:"area_name"`
	// ZoneType is free text; "Delivery Zone" is the significant value.
	ZoneType string `json:"zone_type"`
	// DeliveryType is the portal's delivery mode text.
	DeliveryType string `json:"delivery_type"`
	// TransitDays is kept as text; the portal is not consistent about it.
	TransitDays string `json:"transit_days"`
	// State is the region associated with the pincode, when known from input.
	State string `json:"state,omitempty"`
	// ObservedAt is when the row was scraped.
	ObservedAt time.Time `json:"observed_at"`
}

// OutcomeStatus is the per-fetch result for a pincode.
type OutcomeStatus string

const (
	// OutcomeSuccess means at least one report row was produced.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFailed means the fetch produced no rows or errored.
	OutcomeFailed OutcomeStatus = "failed"
)

// PincodeOutcome records exactly one result per (pincode, fetch attempt).
type PincodeOutcome struct {
	PinCode string        `json:"pin_code"`
	Status  OutcomeStatus `json:"status"`
	// Reason is set on failures: "No records found" for an empty table,
	// otherwise the error text.
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Classification says whether a pincode clears the delivery-zone threshold.
type Classification string

const (
	ClassificationServiceable   Classification = "serviceable"
	ClassificationUnserviceable Classification = "unserviceable"
)

// DeliveryZoneVerdict is the aggregated serviceability verdict for a pincode.
type DeliveryZoneVerdict struct {
	PinCode string `json:"pin_code"`
	// DeliveryZoneFraction is count(Delivery Zone rows) / count(all rows),
	// in [0,1].
	DeliveryZoneFraction float64        `json:"delivery_zone_fraction"`
	Classification       Classification `json:"classification"`
	// State is the first-seen region association, empty when input rows
	// carried none.
	State string `json:"state,omitempty"`
}

// BatchSummary reports the outcome lists of one pincode batch run.
type BatchSummary struct {
	Success []string `json:"success"`
	Failed  []string `json:"failed"`
	// Skipped lists pincodes that already had a successful outcome recorded.
	Skipped []string `json:"skipped"`
}
