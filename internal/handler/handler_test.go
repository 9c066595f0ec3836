package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/config"
	"github.com/iliyamo/cafeteria-booking/internal/handler"
	"github.com/iliyamo/cafeteria-booking/internal/middleware"
	"github.com/iliyamo/cafeteria-booking/internal/repository"
	"github.com/iliyamo/cafeteria-booking/internal/router"
	"github.com/iliyamo/cafeteria-booking/internal/service"
	"github.com/iliyamo/cafeteria-booking/internal/utils"
)

type testServer struct {
	e *echo.Echo
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	hash, err := utils.HashPassword("open-sesame", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		JWTSecret:         "handler-test",
		AccessTTLMin:      5,
		StaffUser:         "counter",
		StaffPasswordHash: hash,
	}
	logger := log.New("test")
	logger.SetLevel(log.OFF)

	e := echo.New()
	e.Logger = logger
	catalog := booking.DefaultCatalog()
	pub := &service.LogPublisher{Logger: logger}
	svc := service.NewBookingService(catalog, booking.DefaultSeatPolicy(),
		repository.NewMemorySessionStore(), repository.NewMemoryReceiptStore(), pub, time.Hour, logger)

	noCache := middleware.NewRedisCache(config.CacheConfig{}, nil)
	noLimit := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)
	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog), noCache)
	router.RegisterBooking(e, handler.NewBookingHandler(svc), noLimit)
	router.RegisterStalls(e, handler.NewStallHandler(repository.NewStallRepo(repository.DefaultStalls())),
		handler.NewStaffAuthHandler(cfg), cfg.JWTSecret)
	return &testServer{e: e}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", "")
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "ok" {
		t.Fatalf("expected ok, got %q", rec.Body.String())
	}
}

func TestBookingOverHTTP(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/v1/bookings", "", "")
	expectStatus(t, rec, http.StatusCreated)
	id := decode[service.View](t, rec).ID
	base := "/v1/bookings/" + id

	rec = s.do(t, http.MethodPost, base+"/cart/items", `{"restaurant":"gourmet-palace","item":"Truffle Pasta"}`, "")
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodPost, base+"/details", `{"name":"Ana","restaurant":"gourmet-palace"}`, "")
	expectStatus(t, rec, http.StatusOK)
	if v := decode[service.View](t, rec); v.Step != booking.StepSeats {
		t.Fatalf("expected seats step, got %s", v.Step)
	}

	expectStatus(t, s.do(t, http.MethodPost, base+"/seats/1/toggle", "", ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodPost, base+"/seats/2/toggle", "", ""), http.StatusOK)
	rec = s.do(t, http.MethodPost, base+"/seats", "", "")
	expectStatus(t, rec, http.StatusOK)
	v := decode[service.View](t, rec)
	if v.Step != booking.StepPayment || !v.Totals.Grand.Equal(decimal.NewFromInt(452)) {
		t.Fatalf("unexpected view at payment: %+v", v)
	}

	rec = s.do(t, http.MethodPost, base+"/payment", "", "")
	expectStatus(t, rec, http.StatusOK)
	res := decode[service.PaymentResult](t, rec)
	if res.Redirect.Message != "Redirecting to payment gateway..." || !res.View.Completed {
		t.Fatalf("unexpected payment result: %+v", res)
	}

	rec = s.do(t, http.MethodGet, "/v1/receipts/"+res.Redirect.Reference, "", "")
	expectStatus(t, rec, http.StatusOK)
	var rc struct {
		CustomerName string          `json:"customer_name"`
		Seats        []int           `json:"seats"`
		GrandTotal   decimal.Decimal `json:"grand_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rc); err != nil {
		t.Fatal(err)
	}
	if rc.CustomerName != "Ana" || len(rc.Seats) != 2 || !rc.GrandTotal.Equal(decimal.NewFromInt(452)) {
		t.Fatalf("unexpected receipt %+v", rc)
	}

	expectStatus(t, s.do(t, http.MethodPost, base+"/payment", "", ""), http.StatusConflict)
}

func TestBookingErrorsOverHTTP(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/v1/bookings", "", "")
	base := "/v1/bookings/" + decode[service.View](t, rec).ID

	// empty cart and name: every message is reported
	rec = s.do(t, http.MethodPost, base+"/details", `{"name":"","restaurant":"spice-garden"}`, "")
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	body := decode[struct {
		Messages []string `json:"messages"`
	}](t, rec)
	if len(body.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", body.Messages)
	}

	rec = s.do(t, http.MethodPost, base+"/cart/items", `{"restaurant":"spice-garden","item":"Truffle Pasta"}`, "")
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	expectStatus(t, s.do(t, http.MethodPost, base+"/cart/items", `{"restaurant":""}`, ""), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, base+"/seats/3/toggle", "", ""), http.StatusConflict)
	expectStatus(t, s.do(t, http.MethodPost, base+"/seats/abc/toggle", "", ""), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, base+"/back", "", ""), http.StatusConflict)
	expectStatus(t, s.do(t, http.MethodGet, "/v1/bookings/unknown", "", ""), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/v1/receipts/nothing", "", ""), http.StatusNotFound)

	expectStatus(t, s.do(t, http.MethodDelete, base, "", ""), http.StatusNoContent)
	expectStatus(t, s.do(t, http.MethodGet, base, "", ""), http.StatusNotFound)
}

func TestCatalogRoutes(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/v1/restaurants", "", "")
	expectStatus(t, rec, http.StatusOK)
	list := decode[struct {
		Items []handler.PublicRestaurant `json:"items"`
	}](t, rec)
	if len(list.Items) != 5 || list.Items[0].ID != "gourmet-palace" {
		t.Fatalf("unexpected restaurants %+v", list.Items)
	}

	rec = s.do(t, http.MethodGet, "/v1/restaurants/urban-bistro/menu", "", "")
	expectStatus(t, rec, http.StatusOK)
	menu := decode[struct {
		Currency string                   `json:"currency"`
		Items    []handler.PublicMenuItem `json:"items"`
	}](t, rec)
	if menu.Currency != "INR" || len(menu.Items) != 4 {
		t.Fatalf("unexpected menu %+v", menu)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/v1/restaurants/nowhere/menu", "", ""), http.StatusNotFound)
}

func TestStallRoutes(t *testing.T) {
	s := newServer(t)

	expectStatus(t, s.do(t, http.MethodPut, "/v1/stalls/2/queue", `{"queue_length":40}`, ""), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodPost, "/v1/staff/login", `{"username":"counter","password":"wrong"}`, ""), http.StatusUnauthorized)

	rec := s.do(t, http.MethodPost, "/v1/staff/login", `{"username":"counter","password":"open-sesame"}`, "")
	expectStatus(t, rec, http.StatusOK)
	login := decode[struct {
		Role   string            `json:"role"`
		Access utils.AccessToken `json:"access"`
	}](t, rec)
	if login.Role != utils.RoleStaff || login.Access.Token == "" {
		t.Fatalf("unexpected login response %+v", login)
	}
	tok := login.Access.Token

	expectStatus(t, s.do(t, http.MethodPut, "/v1/stalls/2/queue", `{"queue_length":-1}`, tok), http.StatusUnprocessableEntity)
	expectStatus(t, s.do(t, http.MethodPut, "/v1/stalls/99/queue", `{"queue_length":1}`, tok), http.StatusNotFound)

	rec = s.do(t, http.MethodPut, "/v1/stalls/2/queue", `{"queue_length":40}`, tok)
	expectStatus(t, rec, http.StatusOK)
	updated := decode[handler.StallStatus](t, rec)
	if updated.QueueLength != 40 || updated.EstimatedWaitMinutes != 80 || updated.Congestion != "high" {
		t.Fatalf("unexpected stall after update %+v", updated)
	}

	rec = s.do(t, http.MethodGet, "/v1/stalls/busiest", "", "")
	expectStatus(t, rec, http.StatusOK)
	if after := decode[handler.StallStatus](t, rec); after.ID != 2 {
		t.Fatalf("expected stall 2 to be busiest, got %+v", after)
	}

	rec = s.do(t, http.MethodGet, "/v1/stalls", "", "")
	expectStatus(t, rec, http.StatusOK)
	list := decode[struct {
		Items []handler.StallStatus `json:"items"`
	}](t, rec)
	if len(list.Items) != 5 {
		t.Fatalf("expected 5 stalls, got %d", len(list.Items))
	}
}
