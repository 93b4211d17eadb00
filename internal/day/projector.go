package day

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/bessa"
)

// Everything here is a pure function of (snapshot, today, offset):
// same inputs, same outputs, no IO.

// TargetDate is the YYYY-MM-DD date of today+offset.
func TargetDate(today time.Time, offset int) string {
	return today.AddDate(0, 0, offset).Format("2006-01-02")
}

// Label names a day offset: "Today", "Tomorrow", then weekday names.
func Label(today time.Time, offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return today.AddDate(0, 0, offset).Weekday().String()
	}
}

// OrderForDay returns the first order dated today+offset whose latest
// state is not Cancelled. The scan keeps the input order, which is
// newest-first after the upstream sort. Orders with an empty state
// history never match.
func OrderForDay(snap Snapshot, today time.Time, offset int) (bessa.Order, bool) {
	target := TargetDate(today, offset)
	for _, order := range snap.Orders {
		if order.DatePrefix() != target {
			continue
		}
		state, ok := order.CurrentState()
		if ok && state != bessa.StateCancelled {
			return order, true
		}
	}
	return bessa.Order{}, false
}

// MenuForDay returns the menu fetched for today+offset, or an empty
// list when none was published.
func MenuForDay(snap Snapshot, today time.Time, offset int) []bessa.MenuItem {
	items := snap.Menus[TargetDate(today, offset)]
	if items == nil {
		return []bessa.MenuItem{}
	}
	return items
}

// Summary is the one-line order state for a day: the comma-joined
// non-empty meal names, "Ordered" when the order has only unnamed
// items, "No order" without a match.
func Summary(order *bessa.Order) string {
	if order == nil {
		return "No order"
	}
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		return "Ordered"
	}
	return strings.Join(names, ", ")
}

// TotalPrice recomputes the order total as the sum of line totals,
// rounded to 2 decimals. This is a display aggregate; the server's own
// total field is separate and never recomputed into it.
func TotalPrice(order bessa.Order) float64 {
	var total float64
	for _, item := range order.Items {
		price, _ := strconv.ParseFloat(item.Price, 64)
		total += price * item.Amount
	}
	return math.Round(total*100) / 100
}

// PickupTime extracts HH:MM from a raw order date string, tolerating
// strings too short to carry a time part.
func PickupTime(raw string) string {
	if len(raw) <= 11 {
		return ""
	}
	end := 16
	if len(raw) < end {
		end = len(raw)
	}
	return raw[11:end]
}

// shortStateNames covers only the states users actually see on the
// daily view; the full 13-value naming lives in the bessa package.
var shortStateNames = map[int]string{
	bessa.StateTransmitted: "Ordered",
	bessa.StateAccepted:    "Confirmed",
	bessa.StateCancelled:   "Cancelled",
}

// ShortStateName renders a latest-state code for display. A missing
// or zero code is "Unknown"; codes without a short label keep their
// number.
func ShortStateName(code *int) string {
	if code == nil || *code == 0 {
		return "Unknown"
	}
	if name, ok := shortStateNames[*code]; ok {
		return name
	}
	return fmt.Sprintf("State %d", *code)
}

// Project builds the read model for one day offset.
func Project(snap Snapshot, today time.Time, offset int) View {
	view := View{
		Date:    TargetDate(today, offset),
		DayName: Label(today, offset),
		Summary: "No order",
	}

	if order, ok := OrderForDay(snap, today, offset); ok {
		view.HasOrder = true
		view.Summary = Summary(&order)
		view.Order = buildOrderView(order)
	}

	menu := MenuForDay(snap, today, offset)
	view.Menu = menu
	view.MealCount = len(menu)
	view.MealNames = mealNames(menu)

	return view
}

// ProjectAll builds all Window day views for one snapshot.
func ProjectAll(snap Snapshot, today time.Time) []View {
	views := make([]View, 0, Window)
	for offset := 0; offset < Window; offset++ {
		views = append(views, Project(snap, today, offset))
	}
	return views
}

func buildOrderView(order bessa.Order) *OrderView {
	meals := make([]Meal, 0, len(order.Items))
	for _, item := range order.Items {
		price, _ := strconv.ParseFloat(item.Price, 64)
		meals = append(meals, Meal{
			Name:        item.Name,
			Description: item.Description,
			Price:       price,
			Quantity:    item.Amount,
		})
	}

	var state *int
	if code, ok := order.CurrentState(); ok {
		state = &code
	}

	return &OrderView{
		OrderID:       order.ID,
		Meals:         meals,
		TotalPrice:    TotalPrice(order),
		State:         state,
		StateName:     ShortStateName(state),
		OrderState:    bessa.StateName(order.OrderState),
		PickupTime:    PickupTime(order.Date),
		PickupCode:    order.PickupCode,
		Number:        order.Number,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
	}
}

// mealNames lists menu item names, annotated with the remaining count
// when the venue tracks one.
func mealNames(menu []bessa.MenuItem) []string {
	names := make([]string, 0, len(menu))
	for _, item := range menu {
		name := item.Name
		if item.Available != nil {
			name = fmt.Sprintf("%s (%d left)", name, *item.Available)
		}
		names = append(names, name)
	}
	return names
}
