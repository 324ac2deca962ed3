package domain

// StepTypeRoute is the only step type the tracking table produces: a
// movement between two centers, optionally annotated with an OUT/IN status.
const StepTypeRoute = "ROUTE"

// Step statuses extracted from the row following a route row.
const (
	StepStatusOut = "OUT"
	StepStatusIn  = "IN"
)

// DeliveryStatus is the normalized global status of a shipment.
type DeliveryStatus = string

const (
	// StatusDelivered indicates the shipment reached the consignee.
	StatusDelivered DeliveryStatus = "DELIVERED"
	// StatusUndelivered indicates a delivery attempt failed.
	StatusUndelivered DeliveryStatus = "UNDELIVERED"
	// StatusPending indicates the shipment is awaiting processing.
	StatusPending DeliveryStatus = "PENDING"
	// StatusReturn indicates the shipment is being returned to sender.
	StatusReturn DeliveryStatus = "RETURN"
	// StatusInTransit indicates the shipment is moving between centers.
	StatusInTransit DeliveryStatus = "IN_TRANSIT"
)

// TrackingStep is one movement row from the portal's tracking table.
type TrackingStep struct {
	// Type is always ROUTE for rows emitted by the parser.
	Type string `json:"type"`
	// Status is OUT or IN when the following table row carried one, empty otherwise.
	Status string `json:"status,omitempty"`
	// LocationFrom is the originating center of the movement.
	LocationFrom string `json:"location_from"`
	// LocationTo is the destination center, empty for single-location rows.
	LocationTo string `json:"location_to,omitempty"`
	// Timestamp is the normalized event time (YYYY-MM-DDTHH:MM:00), or the
	// raw portal text when normalization failed.
	Timestamp string `json:"datetime,omitempty"`
}

// Center identifies a courier service center.
type Center struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Contact is the person reachable at the last center.
type Contact struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// Manager is the last center's manager line, including the gate-pass note
// when a phone number is published.
type Manager struct {
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

// LastCenter holds the detail fields for the center that last handled the
// shipment. Missing page fields stay empty strings.
type LastCenter struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Contact Contact `json:"contact"`
	Manager Manager `json:"manager"`
}

// TrackingResult is the complete scraped record for one tracking number.
type TrackingResult struct {
	TrackingNo string         `json:"trackingno"`
	Status     string         `json:"status"`
	FromCenter Center         `json:"from_center"`
	LastCenter LastCenter     `json:"last_center"`
	Steps      []TrackingStep `json:"tracking_steps"`
	// Error carries the failure text when the lookup for this number failed;
	// batch processing records the failure here instead of aborting.
	Error string `json:"error,omitempty"`
}
