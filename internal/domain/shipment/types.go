package shipment

import (
	"time"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
)

// Warehouse is immutable registry data: a shippable location and its
// coordinate.
type Warehouse struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Pos  geo.Point `json:"position"`
}

// Carrier enumerates the couriers the model was trained on.
type Carrier string

const (
	CarrierFedEx Carrier = "FedEx"
	CarrierDHL   Carrier = "DHL"
	CarrierUPS   Carrier = "UPS"
	CarrierUSPS  Carrier = "USPS"
)

// Carriers lists every supported courier in display order.
func Carriers() []Carrier {
	return []Carrier{CarrierFedEx, CarrierDHL, CarrierUPS, CarrierUSPS}
}

// Valid reports whether the carrier is one the model understands.
func (c Carrier) Valid() bool {
	for _, known := range Carriers() {
		if c == known {
			return true
		}
	}
	return false
}

// Month is the shipment month feature expected by the model.
type Month string

var months = []Month{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthOf converts a calendar month into the model's month feature.
func MonthOf(t time.Time) Month {
	return months[int(t.Month())-1]
}

// Valid reports whether the month matches one of the twelve names.
func (m Month) Valid() bool {
	for _, known := range months {
		if m == known {
			return true
		}
	}
	return false
}

// StatusOnTime is the fixed placeholder status the serving schema
// requires; the dashboard never submits anything else.
const StatusOnTime = "On Time"

// ShipmentRequest is the immutable feature row sent to the model. It is
// built fresh per submission and discarded once the cycle completes.
// DeliveryDate is present because the serving schema demands it, but no
// local computation ever reads it.
type ShipmentRequest struct {
	Carrier         Carrier
	OriginWarehouse string
	Destination     string
	ShipmentMonth   Month
	DistanceMiles   float64
	WeightKg        float64
	Cost            float64
	Status          string
	DeliveryDate    string
}

// Request captures the payload accepted by the prediction endpoint.
type Request struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weightKg"`
	Carrier     string  `json:"carrier"`
	Month       string  `json:"month,omitempty"`
}

// Snapshot is the fully assembled prediction result published for one
// render cycle. It is replaced as a whole on each successful run and
// never mutated field by field.
type Snapshot struct {
	RequestID     string      `json:"requestId"`
	Carrier       Carrier     `json:"carrier"`
	Origin        Warehouse   `json:"origin"`
	Destination   Warehouse   `json:"destination"`
	TransitDays   float64     `json:"transitDays"`
	DistanceMiles float64     `json:"distanceMiles"`
	WeightKg      float64     `json:"weightKg"`
	CostEstimate  float64     `json:"costEstimate"`
	Path          []geo.Point `json:"path"`
	Progress      float64     `json:"progress"`
	Position      geo.Point   `json:"position"`
	CreatedAt     string      `json:"createdAt"`
}

// Options feeds the dashboard dropdowns.
type Options struct {
	Origins      []Warehouse `json:"origins"`
	Destinations []Warehouse `json:"destinations"`
	Carriers     []Carrier   `json:"carriers"`
}
