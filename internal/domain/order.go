package domain

// Visit is the per-kind scheduling block on an order record.
// Date and times are stored as strings because the record is owned by the
// portal's order store; the engine parses them into Jobs and formats the
// computed schedule back.
type Visit struct {
	Date         string `json:"date,omitempty"` // 2006-01-02, empty until confirmed
	Team         Team   `json:"team,omitempty"` // empty until dispatched
	Address      string `json:"address,omitempty"`
	TargetTime   string `json:"target_time,omitempty"` // 15:04, customer request
	DurationMins int    `json:"duration_mins,omitempty"`

	Rigid  bool `json:"rigid,omitempty"`
	CoJoin bool `json:"co_join,omitempty"`

	DepartTime       string `json:"depart_time,omitempty"`
	ArriveTime       string `json:"arrive_time,omitempty"`
	StartTime        string `json:"start_time,omitempty"`
	EndTime          string `json:"end_time,omitempty"`
	ReturnDepartTime string `json:"return_depart_time,omitempty"`
	HubArriveTime    string `json:"hub_arrive_time,omitempty"`

	OutboundKm   float64 `json:"outbound_km,omitempty"`
	OutboundMins float64 `json:"outbound_mins,omitempty"`
	ReturnKm     float64 `json:"return_km,omitempty"`
	ReturnMins   float64 `json:"return_mins,omitempty"`
}

// Order is the externally owned order record, reduced to the fields the
// dispatch engine reads and writes. The engine never keeps a live reference:
// stores hand out copies and accept transformed copies back.
type Order struct {
	OrderNumber     string `json:"order_number"`
	Customer        string `json:"customer,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`

	// Version is the optimistic-concurrency token checked by UpdateOrder.
	Version int64 `json:"version"`

	Setup     *Visit `json:"setup,omitempty"`
	Dismantle *Visit `json:"dismantle,omitempty"`
	Adhoc     *Visit `json:"adhoc,omitempty"`

	Tracking *GPSTrackingData `json:"tracking,omitempty"`
}

// VisitFor returns the visit block for the given kind, nil when the order
// has none.
func (o *Order) VisitFor(kind JobKind) *Visit {
	switch kind {
	case JobSetup:
		return o.Setup
	case JobDismantle:
		return o.Dismantle
	case JobAdhoc:
		return o.Adhoc
	}
	return nil
}

// Clone deep-copies the order so transforms stay pure.
func (o Order) Clone() Order {
	out := o
	out.Setup = cloneVisit(o.Setup)
	out.Dismantle = cloneVisit(o.Dismantle)
	out.Adhoc = cloneVisit(o.Adhoc)
	out.Tracking = o.Tracking.Clone()
	return out
}

func cloneVisit(v *Visit) *Visit {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
