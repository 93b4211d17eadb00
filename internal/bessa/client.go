package bessa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://api.bessa.app"
	loginPath      = "/v1/auth/login/"
	ordersPath     = "/v1/user/orders"

	// menu type 7 = canteen menu
	menuType = 7
)

var (
	// ErrAuthentication means a call needed a token, had none, and a
	// fresh login attempt failed too. It is the only hard failure the
	// read paths surface; everything else degrades to empty results.
	ErrAuthentication = errors.New("authentication failed")
)

// Client talks to the Bessa lunch API for one user at one venue.
//
// The token is guarded by a mutex, but calls that may clear and
// re-acquire it are expected to run one at a time; callers that share
// a Client across goroutines must serialize them.
type Client struct {
	creds   Credentials
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(creds Credentials, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		creds:   creds,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Authenticate logs in and stores the session token. Every failure is
// logged and returned as an error; nothing panics. A 400 yields the
// upstream validation text verbatim (non-field errors first, then
// email, then password).
func (c *Client) Authenticate(ctx context.Context) error {
	email := strings.TrimSpace(c.creds.Username)

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": c.creds.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+loginPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("AUTH_FAILED err=%v", err)
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var result struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			log.Printf("AUTH_FAILED decode err=%v", err)
			return err
		}
		if strings.TrimSpace(result.Key) == "" {
			log.Printf("AUTH_FAILED no token in response")
			return errors.New("no token in login response")
		}
		c.setToken(strings.TrimSpace(result.Key))
		return nil

	case http.StatusBadRequest:
		var fields loginErrors
		_ = json.NewDecoder(resp.Body).Decode(&fields)
		msg := fields.message()
		log.Printf("AUTH_REJECTED %s", msg)
		return errors.New(msg)

	default:
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("AUTH_FAILED status=%d body=%s", resp.StatusCode, raw)
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}
}

// loginErrors is the DRF validation body of a failed login.
type loginErrors struct {
	NonFieldErrors []string `json:"non_field_errors"`
	Email          []string `json:"email"`
	Password       []string `json:"password"`
}

// message picks the first present error list, in the API's priority
// order, and joins it. Nothing from the other fields leaks in.
func (e loginErrors) message() string {
	switch {
	case len(e.NonFieldErrors) > 0:
		return strings.Join(e.NonFieldErrors, ", ")
	case len(e.Email) > 0:
		return strings.Join(e.Email, ", ")
	case len(e.Password) > 0:
		return strings.Join(e.Password, ", ")
	default:
		return "login failed"
	}
}

// TodayOrders returns all non-deleted orders for the venue from the
// last 7 days, newest first, with every pagination page collected.
//
// A 401 clears the token and retries the whole call once (a bounded
// loop, never recursion); a second 401 degrades to an empty list like
// any other non-200. Transport and decode errors propagate.
func (c *Client) TodayOrders(ctx context.Context) ([]Order, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -7)

	u, err := url.Parse(c.baseURL + ordersPath)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("venue", strconv.Itoa(c.creds.VenueID))
	q.Set("deleted__isnull", "true")
	q.Set("date__gte", since.Format(time.RFC3339))
	q.Set("ordering", "-date")
	u.RawQuery = q.Encode()

	for attempt := 0; attempt <= 1; attempt++ {
		resp, err := c.get(ctx, u.String())
		if err != nil {
			log.Printf("ORDERS_FAILED err=%v", err)
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return c.collectPages(ctx, resp)

		case http.StatusUnauthorized:
			resp.Body.Close()
			c.clearToken()
			if attempt == 0 {
				if err := c.ensureToken(ctx); err != nil {
					return nil, err
				}
				continue
			}
			log.Printf("ORDERS_FAILED status=401 after re-authentication")
			return []Order{}, nil

		default:
			resp.Body.Close()
			log.Printf("ORDERS_FAILED status=%d", resp.StatusCode)
			return []Order{}, nil
		}
	}
	return []Order{}, nil
}

// collectPages decodes the first orders page and follows next links
// until none is left. A failed page fetch stops the walk and keeps
// what was collected so far.
func (c *Client) collectPages(ctx context.Context, first *http.Response) ([]Order, error) {
	var page ordersPage
	err := json.NewDecoder(first.Body).Decode(&page)
	first.Body.Close()
	if err != nil {
		log.Printf("ORDERS_FAILED decode err=%v", err)
		return nil, err
	}

	orders := page.Results
	next := page.Next

	for next != "" {
		resp, err := c.get(ctx, next)
		if err != nil {
			log.Printf("ORDERS_PAGE_FAILED url=%s err=%v", next, err)
			break
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Printf("ORDERS_PAGE_FAILED url=%s status=%d", next, resp.StatusCode)
			break
		}

		var more ordersPage
		err = json.NewDecoder(resp.Body).Decode(&more)
		resp.Body.Close()
		if err != nil {
			log.Printf("ORDERS_PAGE_FAILED url=%s decode err=%v", next, err)
			break
		}

		orders = append(orders, more.Results...)
		next = more.Next
	}

	return orders, nil
}

// OrdersForDate fetches the unfiltered orders list and keeps only rows
// whose YYYY-MM-DD prefix matches date.
func (c *Client) OrdersForDate(ctx context.Context, date string) ([]Order, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, c.baseURL+ordersPath)
	if err != nil {
		log.Printf("ORDERS_FAILED date=%s err=%v", date, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("ORDERS_FAILED date=%s status=%d", date, resp.StatusCode)
		return []Order{}, nil
	}

	var page ordersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		log.Printf("ORDERS_FAILED date=%s decode err=%v", date, err)
		return nil, err
	}

	matched := make([]Order, 0, len(page.Results))
	for _, order := range page.Results {
		if order.DatePrefix() == date {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

// Menu returns the flattened canteen menu for one date. A missing menu
// is expected (future dates are often unpublished), so every failure
// except authentication degrades to an empty list.
func (c *Client) Menu(ctx context.Context, date string) ([]MenuItem, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	menuURL := fmt.Sprintf(
		"%s/v1/venues/%d/menu/%d/%s/",
		c.baseURL, c.creds.VenueID, menuType, date,
	)

	for attempt := 0; attempt <= 1; attempt++ {
		resp, err := c.get(ctx, menuURL)
		if err != nil {
			log.Printf("MENU_FAILED date=%s err=%v", date, err)
			return []MenuItem{}, nil
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var payload menuResponse
			err := json.NewDecoder(resp.Body).Decode(&payload)
			resp.Body.Close()
			if err != nil {
				log.Printf("MENU_FAILED date=%s decode err=%v", date, err)
				return []MenuItem{}, nil
			}
			return flattenMenu(payload), nil

		case http.StatusUnauthorized:
			resp.Body.Close()
			c.clearToken()
			if attempt == 0 {
				if err := c.ensureToken(ctx); err != nil {
					return nil, err
				}
				continue
			}
			log.Printf("MENU_FAILED date=%s status=401 after re-authentication", date)
			return []MenuItem{}, nil

		default:
			resp.Body.Close()
			log.Printf("MENU_UNAVAILABLE date=%s status=%d", date, resp.StatusCode)
			return []MenuItem{}, nil
		}
	}
	return []MenuItem{}, nil
}

// flattenMenu turns the category->items nesting into a single item
// list, each item tagged with its category name.
func flattenMenu(payload menuResponse) []MenuItem {
	items := make([]MenuItem, 0)
	for _, category := range payload.Results {
		for _, raw := range category.Items {
			items = append(items, MenuItem{
				ID:          raw.ID,
				Name:        raw.Name,
				Description: raw.Description,
				Price:       raw.Price,
				Allergens:   raw.Allergens,
				Available:   parseAvailable(raw.AvailableAmount),
				Category:    category.Name,
			})
		}
	}
	return items
}

// parseAvailable reads available_amount, which the API sends as a
// string, a number, or null. Anything unparseable means "not tracked",
// and so does a numeric zero: the feed sends 0 for untracked items.
func parseAvailable(v any) *int {
	switch amount := v.(type) {
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(amount))
		if err != nil {
			return nil
		}
		return &parsed
	case float64:
		if amount == 0 {
			return nil
		}
		parsed := int(amount)
		return &parsed
	default:
		return nil
	}
}

// CancelOrder requests cancellation of one order. It never propagates
// an error: the caller only learns success or failure.
func (c *Client) CancelOrder(ctx context.Context, orderID int) bool {
	if err := c.ensureToken(ctx); err != nil {
		log.Printf("CANCEL_FAILED order=%d err=%v", orderID, err)
		return false
	}

	cancelURL := fmt.Sprintf("%s%s/%d/cancel/", c.baseURL, ordersPath, orderID)

	for attempt := 0; attempt <= 1; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cancelURL, nil)
		if err != nil {
			log.Printf("CANCEL_FAILED order=%d err=%v", orderID, err)
			return false
		}
		req.Header.Set("Authorization", "Token "+c.currentToken())
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			log.Printf("CANCEL_FAILED order=%d err=%v", orderID, err)
			return false
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			log.Printf("CANCEL_DONE order=%d", orderID)
			return true

		case resp.StatusCode == http.StatusUnauthorized && attempt == 0:
			c.clearToken()
			if err := c.ensureToken(ctx); err != nil {
				log.Printf("CANCEL_FAILED order=%d err=%v", orderID, err)
				return false
			}

		default:
			log.Printf("CANCEL_FAILED order=%d status=%d", orderID, resp.StatusCode)
			return false
		}
	}
	return false
}

// ensureToken authenticates lazily: a held token is reused, otherwise
// one login attempt is made. Its failure is the hard failure of every
// read path.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.currentToken() != "" {
		return nil
	}
	if err := c.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return nil
}

// get performs an authenticated GET. Callers own the response body.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.currentToken())
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) clearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}
