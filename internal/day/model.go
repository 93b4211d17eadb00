package day

import (
	"time"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/bessa"
)

// Window is how many consecutive days (starting today) get a read
// model per snapshot.
const Window = 7

// Snapshot is the complete result of one refresh cycle: the recent
// order list plus one menu per upcoming date. It is replaced whole on
// every refresh, never merged.
type Snapshot struct {
	Orders    []bessa.Order
	Menus     map[string][]bessa.MenuItem // keyed by YYYY-MM-DD
	FetchedAt time.Time
}

// Meal is one ordered line in a day view.
type Meal struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
}

// OrderView is the display shape of the order matched to one day.
type OrderView struct {
	OrderID       int     `json:"order_id"`
	Meals         []Meal  `json:"meals"`
	TotalPrice    float64 `json:"total_price"`
	State         *int    `json:"state"`
	StateName     string  `json:"state_name"`
	OrderState    string  `json:"order_state"`
	PickupTime    string  `json:"pickup_time"`
	PickupCode    string  `json:"pickup_code"`
	Number        int     `json:"number"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
}

// View is the full read model for one day: the matched order (if any)
// and the published menu.
type View struct {
	Date      string           `json:"date"`
	DayName   string           `json:"day_name"`
	HasOrder  bool             `json:"has_order"`
	Summary   string           `json:"summary"`
	Order     *OrderView       `json:"order,omitempty"`
	MealCount int              `json:"meal_count"`
	Menu      []bessa.MenuItem `json:"menu"`
	MealNames []string         `json:"meal_names"`
}
