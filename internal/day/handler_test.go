package day

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/bessa"
)

type fakeSource struct {
	snap    Snapshot
	hasSnap bool
}

func (f *fakeSource) Current() (Snapshot, bool) { return f.snap, f.hasSnap }
func (f *fakeSource) Healthy() bool             { return f.hasSnap }

type fakeOrders struct {
	cancelled []int
	ok        bool
}

func (f *fakeOrders) Cancel(_ context.Context, orderID int) bool {
	f.cancelled = append(f.cancelled, orderID)
	return f.ok
}

func setupTestRouter(source *fakeSource, orders *fakeOrders) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(source, orders)
	h.now = func() time.Time {
		return time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	}

	r.GET("/days", h.ListDays)
	r.GET("/days/:offset", h.GetDay)
	r.GET("/days/:offset/order", h.GetDayOrder)
	r.GET("/days/:offset/menu", h.GetDayMenu)
	r.POST("/orders/:id/cancel", h.CancelOrder)

	return r
}

func populatedSource() *fakeSource {
	return &fakeSource{
		hasSnap: true,
		snap: Snapshot{
			Orders: []bessa.Order{{
				ID:   101,
				Date: "2025-06-10T11:30:00Z",
				Items: []bessa.OrderItem{
					{Name: "Schnitzel", Price: "8.90", Amount: 1},
				},
				States: []bessa.OrderState{{State: bessa.StateAccepted}},
			}},
			Menus: map[string][]bessa.MenuItem{
				"2025-06-10": {{ID: 1, Name: "Schnitzel"}},
			},
			FetchedAt: time.Date(2025, 6, 10, 7, 30, 0, 0, time.UTC),
		},
	}
}

func TestListDaysBeforeFirstSnapshot(t *testing.T) {
	r := setupTestRouter(&fakeSource{}, &fakeOrders{})

	req := httptest.NewRequest(http.MethodGet, "/days", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestListDays(t *testing.T) {
	r := setupTestRouter(populatedSource(), &fakeOrders{})

	req := httptest.NewRequest(http.MethodGet, "/days", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Days []View `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Days) != Window {
		t.Fatalf("expected %d days, got %d", Window, len(body.Days))
	}
	if body.Days[0].Summary != "Schnitzel" {
		t.Fatalf("expected today's summary Schnitzel, got %q", body.Days[0].Summary)
	}
	if body.Days[1].Summary != "No order" {
		t.Fatalf("expected tomorrow empty, got %q", body.Days[1].Summary)
	}
}

func TestGetDayRejectsBadOffset(t *testing.T) {
	r := setupTestRouter(populatedSource(), &fakeOrders{})

	for _, path := range []string{"/days/7", "/days/-1", "/days/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestGetDayMenu(t *testing.T) {
	r := setupTestRouter(populatedSource(), &fakeOrders{})

	req := httptest.NewRequest(http.MethodGet, "/days/0/menu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Date      string `json:"date"`
		MealCount int    `json:"meal_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Date != "2025-06-10" || body.MealCount != 1 {
		t.Fatalf("unexpected menu body: %+v", body)
	}
}

func TestCancelOrderSuccess(t *testing.T) {
	orders := &fakeOrders{ok: true}
	r := setupTestRouter(populatedSource(), orders)

	req := httptest.NewRequest(http.MethodPost, "/orders/101/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}
	if len(orders.cancelled) != 1 || orders.cancelled[0] != 101 {
		t.Fatalf("cancel not forwarded: %v", orders.cancelled)
	}
}

func TestCancelOrderFailure(t *testing.T) {
	r := setupTestRouter(populatedSource(), &fakeOrders{ok: false})

	req := httptest.NewRequest(http.MethodPost, "/orders/101/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestCancelOrderRejectsBadID(t *testing.T) {
	r := setupTestRouter(populatedSource(), &fakeOrders{ok: true})

	req := httptest.NewRequest(http.MethodPost, "/orders/abc/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
