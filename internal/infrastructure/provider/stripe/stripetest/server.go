// Package stripetest serves an in-memory subset of the Stripe v1 API for tests.
package stripetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// APIError is an error the server answers with instead of handling a route.
type APIError struct {
	Status          int
	Type            string
	Code            string
	DeclineCode     string
	Message         string
	PaymentIntentID string
}

type customerRecord struct {
	ID                   string
	Email                string
	Name                 string
	Metadata             map[string]string
	DefaultPaymentMethod string
	Created              int64
}

type productRecord struct {
	ID     string
	Name   string
	Active bool
}

type priceRecord struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string
	Active     bool
}

type paymentMethodRecord struct {
	ID         string
	Type       string
	CustomerID string
}

type intentRecord struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

type chargeRecord struct {
	ID       string
	IntentID string
	Status   string
}

// Server is a fake Stripe API. Routes are named "METHOD /v1/pattern", e.g.
// "POST /v1/payment_methods/{id}/attach".
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	seq            int
	customers      []*customerRecord
	products       []*productRecord
	prices         []*priceRecord
	paymentMethods map[string]*paymentMethodRecord
	intents        map[string]*intentRecord
	charges        []*chargeRecord
	calls          map[string]int
	forms          map[string]url.Values
	failures       map[string]APIError
}

// NewServer starts a fake Stripe API that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{
		paymentMethods: make(map[string]*paymentMethodRecord),
		intents:        make(map[string]*intentRecord),
		calls:          make(map[string]int),
		forms:          make(map[string]url.Values),
		failures:       make(map[string]APIError),
	}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		s.handle(r, http.MethodGet, "/customers", s.listCustomers)
		s.handle(r, http.MethodPost, "/customers", s.createCustomer)
		s.handle(r, http.MethodGet, "/customers/{id}", s.getCustomer)
		s.handle(r, http.MethodPost, "/customers/{id}", s.updateCustomer)
		s.handle(r, http.MethodDelete, "/customers/{id}", s.deleteCustomer)

		s.handle(r, http.MethodGet, "/products", s.listProducts)
		s.handle(r, http.MethodPost, "/products", s.createProduct)
		s.handle(r, http.MethodGet, "/prices", s.listPrices)
		s.handle(r, http.MethodPost, "/prices", s.createPrice)

		s.handle(r, http.MethodGet, "/payment_methods", s.listPaymentMethods)
		s.handle(r, http.MethodPost, "/payment_methods/{id}/attach", s.attachPaymentMethod)
		s.handle(r, http.MethodPost, "/payment_methods/{id}/detach", s.detachPaymentMethod)

		s.handle(r, http.MethodPost, "/payment_intents", s.createPaymentIntent)
		s.handle(r, http.MethodGet, "/payment_intents/{id}", s.getPaymentIntent)
		s.handle(r, http.MethodGet, "/charges", s.listCharges)
		s.handle(r, http.MethodPost, "/setup_intents", s.createSetupIntent)
		s.handle(r, http.MethodPost, "/subscriptions", s.createSubscription)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	route := method + " /v1" + pattern
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		if !strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
			writeError(w, APIError{Status: http.StatusUnauthorized, Type: "invalid_request_error",
				Code: "api_key_required", Message: "You did not provide an API key."}, nil)
			return
		}
		_ = req.ParseForm()

		s.mu.Lock()
		s.calls[route]++
		s.forms[route] = req.Form
		apiErr, failing := s.failures[route]
		var intent map[string]interface{}
		if failing && apiErr.PaymentIntentID != "" {
			rec := &intentRecord{ID: apiErr.PaymentIntentID, Status: "requires_payment_method"}
			if apiErr.Code == "authentication_required" {
				rec.Status = "requires_action"
			}
			rec.Amount, _ = strconv.ParseInt(req.Form.Get("amount"), 10, 64)
			rec.Currency = req.Form.Get("currency")
			s.intents[rec.ID] = rec
			intent = rec.json()
		}
		s.mu.Unlock()

		if failing {
			writeError(w, apiErr, intent)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, req)
	})
}

// Fail makes route answer with apiErr until ClearFailures is called.
func (s *Server) Fail(route string, apiErr APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusBadRequest
	}
	s.failures[route] = apiErr
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]APIError)
}

// Calls reports how many requests reached route, failed ones included.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastForm returns the parameters of the last request to route.
func (s *Server) LastForm(route string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[route]
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%04d", prefix, s.seq)
}

func (s *Server) AddCustomer(email, name, systemID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCustomer(email, name, map[string]string{"ID": systemID})
}

func (s *Server) addCustomer(email, name string, metadata map[string]string) string {
	c := &customerRecord{
		ID:       s.nextID("cus"),
		Email:    email,
		Name:     name,
		Metadata: metadata,
		Created:  time.Now().Unix() + int64(s.seq),
	}
	s.customers = append(s.customers, c)
	return c.ID
}

func (s *Server) AddProduct(name string, active bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &productRecord{ID: s.nextID("prod"), Name: name, Active: active}
	s.products = append(s.products, p)
	return p.ID
}

func (s *Server) AddPrice(productID string, unitAmount int64, currency, interval string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &priceRecord{ID: s.nextID("price"), ProductID: productID, UnitAmount: unitAmount,
		Currency: currency, Interval: interval, Active: true}
	s.prices = append(s.prices, p)
	return p.ID
}

// AddPaymentMethod registers an unattached payment method.
func (s *Server) AddPaymentMethod(id, methodType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethods[id] = &paymentMethodRecord{ID: id, Type: methodType}
}

// AttachedTo returns the customer a payment method is attached to.
func (s *Server) AttachedTo(paymentMethodID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pm, ok := s.paymentMethods[paymentMethodID]; ok {
		return pm.CustomerID
	}
	return ""
}

// DefaultPaymentMethod returns the customer's default invoice payment method.
func (s *Server) DefaultPaymentMethod(customerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findCustomer(customerID); c != nil {
		return c.DefaultPaymentMethod
	}
	return ""
}

func (s *Server) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Server) PriceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prices)
}

func (s *Server) findCustomer(id string) *customerRecord {
	for _, c := range s.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (c *customerRecord) json() map[string]interface{} {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	var defaultPM interface{}
	if c.DefaultPaymentMethod != "" {
		defaultPM = c.DefaultPaymentMethod
	}
	return map[string]interface{}{
		"id":       c.ID,
		"object":   "customer",
		"email":    c.Email,
		"name":     c.Name,
		"metadata": metadata,
		"created":  c.Created,
		"invoice_settings": map[string]interface{}{
			"default_payment_method": defaultPM,
		},
	}
}

func (p *productRecord) json() map[string]interface{} {
	return map[string]interface{}{"id": p.ID, "object": "product", "name": p.Name, "active": p.Active}
}

func (p *priceRecord) json() map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"object":      "price",
		"product":     p.ProductID,
		"unit_amount": p.UnitAmount,
		"currency":    p.Currency,
		"active":      p.Active,
		"type":        "recurring",
		"recurring":   map[string]interface{}{"interval": p.Interval, "interval_count": 1},
	}
}

func (pm *paymentMethodRecord) json() map[string]interface{} {
	m := map[string]interface{}{"id": pm.ID, "object": "payment_method", "type": pm.Type}
	if pm.CustomerID != "" {
		m["customer"] = pm.CustomerID
	} else {
		m["customer"] = nil
	}
	if pm.Type == "card" {
		m["card"] = map[string]interface{}{
			"brand":       "visa",
			"country":     "US",
			"last4":       "4242",
			"exp_month":   12,
			"exp_year":    2030,
			"funding":     "credit",
			"fingerprint": "fp_" + pm.ID,
			"description": "Visa Classic",
			"iin":         "424242",
			"issuer":      "Stripe Test Bank",
		}
	}
	return m
}

func (i *intentRecord) json() map[string]interface{} {
	return map[string]interface{}{
		"id":            i.ID,
		"object":        "payment_intent",
		"amount":        i.Amount,
		"currency":      i.Currency,
		"status":        i.Status,
		"client_secret": i.ID + "_secret",
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Request-Id", "req_test")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeList(w http.ResponseWriter, path string, data []interface{}) {
	if data == nil {
		data = []interface{}{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"object":   "list",
		"data":     data,
		"has_more": false,
		"url":      path,
	})
}

func writeError(w http.ResponseWriter, apiErr APIError, intent map[string]interface{}) {
	body := map[string]interface{}{
		"type":    apiErr.Type,
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.DeclineCode != "" {
		body["decline_code"] = apiErr.DeclineCode
	}
	if intent != nil {
		body["payment_intent"] = intent
	}
	writeJSON(w, apiErr.Status, map[string]interface{}{"error": body})
}

func missing(w http.ResponseWriter, kind, id string) {
	writeError(w, APIError{
		Status:  http.StatusNotFound,
		Type:    "invalid_request_error",
		Code:    "resource_missing",
		Message: fmt.Sprintf("No such %s: '%s'", kind, id),
	}, nil)
}

func limitOf(form url.Values) int {
	limit, err := strconv.Atoi(form.Get("limit"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	email := r.Form.Get("email")
	limit := limitOf(r.Form)

	var data []interface{}
	for i := len(s.customers) - 1; i >= 0 && len(data) < limit; i-- {
		c := s.customers[i]
		if email != "" && c.Email != email {
			continue
		}
		data = append(data, c.json())
	}
	writeList(w, "/v1/customers", data)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	metadata := map[string]string{}
	for key, values := range r.Form {
		if strings.HasPrefix(key, "metadata[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			metadata[strings.TrimSuffix(strings.TrimPrefix(key, "metadata["), "]")] = values[0]
		}
	}
	id := s.addCustomer(r.Form.Get("email"), r.Form.Get("name"), metadata)
	writeJSON(w, http.StatusOK, s.findCustomer(id).json())
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := s.findCustomer(id)
	if c == nil {
		missing(w, "customer", id)
		return
	}
	writeJSON(w, http.StatusOK, c.json())
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := s.findCustomer(id)
	if c == nil {
		missing(w, "customer", id)
		return
	}
	if pm := r.Form.Get("invoice_settings[default_payment_method]"); pm != "" {
		c.DefaultPaymentMethod = pm
	}
	writeJSON(w, http.StatusOK, c.json())
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for i, c := range s.customers {
		if c.ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "object": "customer", "deleted": true})
			return
		}
	}
	missing(w, "customer", id)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.Form.Get("active") == "true"
	var data []interface{}
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		data = append(data, p.json())
	}
	writeList(w, "/v1/products", data)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	p := &productRecord{ID: s.nextID("prod"), Name: r.Form.Get("name"), Active: true}
	s.products = append(s.products, p)
	writeJSON(w, http.StatusOK, p.json())
}

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request) {
	productID := r.Form.Get("product")
	activeOnly := r.Form.Get("active") == "true"
	var data []interface{}
	for _, p := range s.prices {
		if productID != "" && p.ProductID != productID {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		data = append(data, p.json())
	}
	writeList(w, "/v1/prices", data)
}

func (s *Server) createPrice(w http.ResponseWriter, r *http.Request) {
	amount, _ := strconv.ParseInt(r.Form.Get("unit_amount"), 10, 64)
	p := &priceRecord{
		ID:         s.nextID("price"),
		ProductID:  r.Form.Get("product"),
		UnitAmount: amount,
		Currency:   r.Form.Get("currency"),
		Interval:   r.Form.Get("recurring[interval]"),
		Active:     true,
	}
	s.prices = append(s.prices, p)
	writeJSON(w, http.StatusOK, p.json())
}

func (s *Server) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	customerID := r.Form.Get("customer")
	methodType := r.Form.Get("type")
	var data []interface{}
	for _, pm := range s.paymentMethods {
		if customerID != "" && pm.CustomerID != customerID {
			continue
		}
		if methodType != "" && pm.Type != methodType {
			continue
		}
		data = append(data, pm.json())
	}
	writeList(w, "/v1/payment_methods", data)
}

func (s *Server) attachPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pm, ok := s.paymentMethods[id]
	if !ok {
		missing(w, "payment_method", id)
		return
	}
	customerID := r.Form.Get("customer")
	if s.findCustomer(customerID) == nil {
		missing(w, "customer", customerID)
		return
	}
	pm.CustomerID = customerID
	writeJSON(w, http.StatusOK, pm.json())
}

func (s *Server) detachPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pm, ok := s.paymentMethods[id]
	if !ok {
		missing(w, "payment_method", id)
		return
	}
	pm.CustomerID = ""
	writeJSON(w, http.StatusOK, pm.json())
}

func (s *Server) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	amount, _ := strconv.ParseInt(r.Form.Get("amount"), 10, 64)
	pi := &intentRecord{
		ID:       s.nextID("pi"),
		Amount:   amount,
		Currency: r.Form.Get("currency"),
		Status:   "succeeded",
	}
	s.intents[pi.ID] = pi
	s.charges = append(s.charges, &chargeRecord{ID: s.nextID("ch"), IntentID: pi.ID, Status: "succeeded"})
	writeJSON(w, http.StatusOK, pi.json())
}

func (s *Server) getPaymentIntent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pi, ok := s.intents[id]
	if !ok {
		missing(w, "payment_intent", id)
		return
	}
	writeJSON(w, http.StatusOK, pi.json())
}

func (s *Server) listCharges(w http.ResponseWriter, r *http.Request) {
	intentID := r.Form.Get("payment_intent")
	var data []interface{}
	for _, ch := range s.charges {
		if intentID != "" && ch.IntentID != intentID {
			continue
		}
		data = append(data, map[string]interface{}{
			"id":             ch.ID,
			"object":         "charge",
			"status":         ch.Status,
			"payment_intent": ch.IntentID,
		})
	}
	writeList(w, "/v1/charges", data)
}

func (s *Server) createSetupIntent(w http.ResponseWriter, r *http.Request) {
	customerID := r.Form.Get("customer")
	c := s.findCustomer(customerID)
	if c == nil {
		missing(w, "customer", customerID)
		return
	}
	id := s.nextID("seti")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":            id,
		"object":        "setup_intent",
		"client_secret": id + "_secret",
		"status":        "requires_payment_method",
		"customer":      c.json(),
	})
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	customerID := r.Form.Get("customer")
	c := s.findCustomer(customerID)
	if c == nil {
		missing(w, "customer", customerID)
		return
	}
	priceID := r.Form.Get("items[0][price]")
	found := false
	for _, p := range s.prices {
		if p.ID == priceID {
			found = true
			break
		}
	}
	if !found {
		missing(w, "price", priceID)
		return
	}

	status := "incomplete"
	if c.DefaultPaymentMethod != "" {
		status = "active"
	}
	pi := &intentRecord{ID: s.nextID("pi"), Status: "requires_payment_method"}
	if status == "active" {
		pi.Status = "succeeded"
	}
	s.intents[pi.ID] = pi

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       s.nextID("sub"),
		"object":   "subscription",
		"status":   status,
		"customer": customerID,
		"latest_invoice": map[string]interface{}{
			"id":             s.nextID("in"),
			"object":         "invoice",
			"payment_intent": pi.json(),
		},
	})
}
