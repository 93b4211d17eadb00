package bessa

// Credentials identify one user at one venue. A Client keeps them for
// its whole lifetime; the venue cannot change without a new Client.
type Credentials struct {
	Username string
	Password string
	VenueID  int
}

// OrderState is one entry of an order's state history. The API returns
// the history newest-first, so states[0] is the current state.
type OrderState struct {
	State     int    `json:"state"`
	Timestamp string `json:"timestamp"`
}

// OrderItem is one line of an order. Price is a decimal-as-string,
// exactly as the API sends it.
type OrderItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Amount      float64 `json:"amount"`
	VAT         string  `json:"vat"`
	Article     int     `json:"article"`
}

// Order is a single lunch order. Date stays a raw string: day matching
// works on its YYYY-MM-DD prefix and the pickup time on chars 11..16,
// so parsing it into a time.Time would only lose the original text.
type Order struct {
	ID            int          `json:"id"`
	Venue         int          `json:"venue"`
	OrderType     int          `json:"order_type"`
	OrderState    int          `json:"order_state"`
	PaymentMethod string       `json:"payment_method"`
	Date          string       `json:"date"`
	Total         string       `json:"total"`
	Currency      string       `json:"currency"`
	PickupCode    string       `json:"pickup_code"`
	Number        int          `json:"number"`
	Items         []OrderItem  `json:"items"`
	States        []OrderState `json:"states"`
	Created       string       `json:"created"`
	Updated       string       `json:"updated"`
	Deleted       *string      `json:"deleted"`
}

// MenuItem is a flattened menu entry. Available is nil when the venue
// does not track a remaining count for the item.
type MenuItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Allergens   string `json:"allergens"`
	Available   *int   `json:"available"`
	Category    string `json:"category"`
}

// ordersPage is one page of the paginated orders endpoint.
type ordersPage struct {
	Next     string  `json:"next"`
	Previous string  `json:"previous"`
	Results  []Order `json:"results"`
}

// menuResponse is the raw per-date menu payload: categories, each with
// its own items. The client flattens it into []MenuItem.
type menuResponse struct {
	Results []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Items []struct {
			ID              int    `json:"id"`
			Name            string `json:"name"`
			Description     string `json:"description"`
			Price           string `json:"price"`
			Allergens       string `json:"allergens"`
			AvailableAmount any    `json:"available_amount"`
		} `json:"items"`
	} `json:"results"`
}
