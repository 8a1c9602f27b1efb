package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	cartsvc "ecomStore/business/cart"
	"ecomStore/business/category"
	orderssvc "ecomStore/business/orders"
	productsvc "ecomStore/business/product"
	usersvc "ecomStore/business/user"
	"ecomStore/internal/middleware"
	"ecomStore/internal/repository/jsonstore"
	"ecomStore/internal/rest"
	"ecomStore/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

var otpPattern = regexp.MustCompile(`<b>(\d{6})</b>`)

func (m *captureMailer) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match := otpPattern.FindStringSubmatch(message); match != nil {
		m.codes[toEmail] = match[1]
	}
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testServer struct {
	e      *echo.Echo
	mailer *captureMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	decimal.MarshalJSONWithoutQuotes = true

	store, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)

	validate := validator.New()
	mailer := &captureMailer{codes: map[string]string{}}

	users := jsonstore.NewUserRepository(store)
	products := jsonstore.NewProductRepository(store)
	cart := jsonstore.NewCartRepository(store)

	userService := usersvc.NewUserService(users, jsonstore.NewOTPRepository(store), store, validate, mailer,
		utils.NewJWTManager("router-test-secret", 0), nil, 0)
	productService := productsvc.NewProductService(products, store, validate)
	cartService := cartsvc.NewCartService(cart, products, store)
	ordersService := orderssvc.NewOrdersService(jsonstore.NewOrdersRepository(store), products, cart, store, validate)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	authRequired := middleware.AuthMiddleware(userService, "auth-token")

	SetupSystemRoutes(e)
	api := e.Group("/api")
	SetupAuthRoutes(api, rest.NewUserHandler(userService, rest.SessionCookie{Name: "auth-token"}), authRequired)
	SetupCartRoutes(api, rest.NewCartHandler(cartService), authRequired)
	SetupProductRoutes(api, rest.NewProductHandler(productService),
		rest.NewCategoryHandler(category.NewCategoryService(products)), authRequired)
	SetOrdersRoutes(api, rest.NewOrdersHandler(ordersService), authRequired)

	return &testServer{e: e, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, body string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if session != nil {
		req.AddCookie(session)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers, verifies and logs in a user, returning the session cookie.
func (s *testServer) signUp(t *testing.T, email, role string) *http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"`+email+`","password":"secret123","firstName":"Ann","lastName":"Lee","role":"`+role+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/verify-otp",
		`{"email":"`+email+`","otp":"`+s.mailer.code(email)+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "auth-token" {
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			return cookie
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

var (
	productIDPattern = regexp.MustCompile(`"product":\{"id":"([^"]+)"`)
	orderIDPattern   = regexp.MustCompile(`"order":\{"id":"([^"]+)"`)
)

func capture(t *testing.T, pattern *regexp.Regexp, body string) string {
	t.Helper()
	match := pattern.FindStringSubmatch(body)
	require.NotNil(t, match, body)
	return match[1]
}

func TestRegistrationFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"new@example.com","password":"secret123","firstName":"New","lastName":"User","role":"customer"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"emailSent":true`)
	assert.NotContains(t, rec.Body.String(), "secret123")

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"new@example.com","password":"secret123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_VERIFIED")

	rec = s.do(t, http.MethodPost, "/api/auth/verify-otp", `{"email":"new@example.com","otp":"000000x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_OR_EXPIRED_OTP")

	rec = s.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"new@example.com","password":"secret123","firstName":"New","lastName":"User","role":"customer"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_EXISTS")

	rec = s.do(t, http.MethodPost, "/api/auth/send-otp", `{"email":"ghost@example.com"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-otp",
		`{"email":"new@example.com","otp":"`+s.mailer.code("new@example.com")+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"new@example.com","password":"wrong-pass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"new@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "auth-token" {
			session = cookie
		}
	}
	require.NotNil(t, session)

	rec = s.do(t, http.MethodGet, "/api/auth/me", "", session)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")

	rec = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", session)
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "auth-token" {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	}
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	seller := s.signUp(t, "seller@example.com", "seller")
	customer := s.signUp(t, "buyer@example.com", "customer")

	product := `{"name":"Runner","description":"Light running shoe","price":10.00,"category":"shoes","stock":5}`

	rec := s.do(t, http.MethodPost, "/api/products", product, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "SELLER_ACCESS_REQUIRED")

	rec = s.do(t, http.MethodPost, "/api/products", product, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/products", product, seller)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := capture(t, productIDPattern, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/products/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"id":"shoes","name":"Shoes","count":1}`)

	rec = s.do(t, http.MethodGet, "/api/products/search?q=runner", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), productID)

	rec = s.do(t, http.MethodPost, "/api/orders",
		`{"shippingAddress":{"street":"1 Main St","city":"Town","state":"ST","zipCode":"12345","country":"US"},"paymentMethod":"card"}`, customer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CART")

	rec = s.do(t, http.MethodPost, "/api/cart", `{"productId":"`+productID+`","quantity":6}`, customer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")

	rec = s.do(t, http.MethodPost, "/api/cart", `{"productId":"`+productID+`"}`, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/cart", `{"productId":"`+productID+`","quantity":1}`, customer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"quantity":2`)

	rec = s.do(t, http.MethodPost, "/api/orders", `{"paymentMethod":"card"}`, customer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = s.do(t, http.MethodPost, "/api/orders",
		`{"shippingAddress":{"street":"1 Main St","city":"Town","state":"ST","zipCode":"12345","country":"US"},"paymentMethod":"card"}`, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":20`)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	orderID := capture(t, orderIDPattern, rec.Body.String())

	var placed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.JSONEq(t, `"Order placed successfully"`, string(placed["message"]))
	assert.Contains(t, placed, "order")
	assert.NotContains(t, placed, "data")

	rec = s.do(t, http.MethodGet, "/api/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":3`)

	rec = s.do(t, http.MethodGet, "/api/cart", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cartItems":[]`)

	rec = s.do(t, http.MethodDelete, "/api/cart", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Cart cleared"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/orders", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), orderID)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `{"orders":[`), rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/orders/seller", "", customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders/seller", "", seller)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), orderID)

	rec = s.do(t, http.MethodGet, "/api/orders/"+orderID, "", seller)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/orders/"+orderID, `{"status":"shipped"}`, seller)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS_TRANSITION")

	rec = s.do(t, http.MethodPut, "/api/orders/"+orderID, `{"status":"processing"}`, seller)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"processing"`)

	rec = s.do(t, http.MethodPut, "/api/orders/"+orderID, `{"status":"cancelled"}`, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = s.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
