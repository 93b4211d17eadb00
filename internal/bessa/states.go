package bessa

// Order state codes per the official API documentation.
const (
	StateNew               = 1
	StatePaymentProcessing = 2
	StateTransmittable     = 3
	StateTransmitted       = 4
	StateAccepted          = 5
	StatePreparing         = 6
	StateReady             = 7
	StateDone              = 8
	StateCancelled         = 9
	StateRejected          = 10
	StateFailed            = 11
	StateExpired           = 12
	StatePreordered        = 13
)

var stateNames = map[int]string{
	StateNew:               "New",
	StatePaymentProcessing: "Payment Processing",
	StateTransmittable:     "Transmittable",
	StateTransmitted:       "Transmitted",
	StateAccepted:          "Accepted",
	StatePreparing:         "Preparing",
	StateReady:             "Ready",
	StateDone:              "Done",
	StateCancelled:         "Cancelled",
	StateRejected:          "Rejected",
	StateFailed:            "Failed",
	StateExpired:           "Expired",
	StatePreordered:        "Pre-ordered",
}

// StateName maps an order state code to its documented name. Codes the
// API adds later must render, not fail.
func StateName(code int) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return "Unknown"
}

// CurrentState returns the order's latest state code, or false when the
// history is empty. The API sends the history newest-first and that
// ordering is trusted as-is.
func (o Order) CurrentState() (int, bool) {
	if len(o.States) == 0 {
		return 0, false
	}
	return o.States[0].State, true
}

// IsCancelled reports whether the order's latest state is Cancelled.
func (o Order) IsCancelled() bool {
	state, ok := o.CurrentState()
	return ok && state == StateCancelled
}

// DatePrefix normalizes the order date to its YYYY-MM-DD prefix. Day
// matching must never depend on the time-of-day part.
func (o Order) DatePrefix() string {
	if len(o.Date) < 10 {
		return o.Date
	}
	return o.Date[:10]
}
