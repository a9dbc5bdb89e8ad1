package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"eshop/contexts/catalog"
	cataloghttp "eshop/contexts/catalog/transport/http"
	"eshop/contexts/identity"
	identityhttp "eshop/contexts/identity/transport/http"
	"eshop/contexts/ordering"
	orderingports "eshop/contexts/ordering/ports"
	orderinghttp "eshop/contexts/ordering/transport/http"
	"eshop/internal/platform/uploads"
)

type testEnv struct {
	server   *Server
	identity identity.Module
	catalog  catalog.Module
	ordering ordering.Module
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	identityModule, err := identity.NewInMemoryModule([]byte("test-secret"), nil)
	if err != nil {
		t.Fatalf("build identity module: %v", err)
	}
	catalogModule := catalog.NewInMemoryModule(nil)
	orderingModule := ordering.NewInMemoryModule(nil, nil)

	uploadStore, err := uploads.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("build upload store: %v", err)
	}

	server := New(identityModule, catalogModule, orderingModule, uploadStore, nil, ":0", "/api/v1")
	return testEnv{
		server:   server,
		identity: identityModule,
		catalog:  catalogModule,
		ordering: orderingModule,
	}
}

// tokenFor registers a user directly against the identity module and logs in,
// returning the signed bearer token and the user id.
func (env testEnv) tokenFor(t *testing.T, email string, isAdmin bool) (string, string) {
	t.Helper()
	ctx := context.Background()

	registered, err := env.identity.Handler.RegisterHandler(ctx, identityhttp.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "swordfish-swordfish",
		IsAdmin:  isAdmin,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	login, err := env.identity.Handler.LoginHandler(ctx, identityhttp.LoginRequest{
		Email:    email,
		Password: "swordfish-swordfish",
	})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return login.Token, registered.Data.UserID
}

func (env testEnv) do(method string, path string, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestPublicRoutesSkipAuthentication(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(http.MethodGet, "/api/v1/products", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("GET products should be public, got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/api/v1/categories", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("GET categories should be public, got %d", resp.Code)
	}
}

func TestMissingTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(http.MethodGet, "/api/v1/orders", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for orders without token, got %d", resp.Code)
	}
	// Only GET and OPTIONS are exempt under the products prefix.
	if resp := env.do(http.MethodPost, "/api/v1/products", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for POST products without token, got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/api/v1/users", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for users without token, got %d", resp.Code)
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/api/v1/orders", "definitely-not-a-jwt", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.Code)
	}
}

func TestNonAdminForbiddenOnCatalogWrites(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.tokenFor(t, "shopper@example.com", false)

	resp := env.do(http.MethodPost, "/api/v1/categories", token, cataloghttp.CategoryRequest{Name: "toys"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin category create, got %d", resp.Code)
	}

	resp = env.do(http.MethodGet, "/api/v1/users", token, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin user listing, got %d", resp.Code)
	}
}

func TestAdminCanManageCatalog(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.tokenFor(t, "root@example.com", true)

	resp := env.do(http.MethodPost, "/api/v1/categories", token, cataloghttp.CategoryRequest{Name: "toys"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin category create, got %d: %s", resp.Code, resp.Body.String())
	}

	var created cataloghttp.CategoryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode category response: %v", err)
	}
	if created.Data.CategoryID == "" {
		t.Fatal("expected category id in response")
	}
}

func TestNonAdminCanPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.tokenFor(t, "shopper@example.com", false)
	env.ordering.Store.SeedProduct(orderingports.ProductRef{ProductID: "prod-1", Name: "Chair", Price: 12})

	resp := env.do(http.MethodPost, "/api/v1/orders", token, orderinghttp.PlaceOrderRequest{
		OrderItems:       []orderinghttp.OrderItemRequest{{Product: "prod-1", Quantity: 2}},
		ShippingAddress1: "1 Main Street",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "USA",
		Phone:            "555-0100",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for order placement, got %d: %s", resp.Code, resp.Body.String())
	}

	var placed orderinghttp.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &placed); err != nil {
		t.Fatalf("decode order response: %v", err)
	}
	if placed.Data.UserID != userID {
		t.Fatalf("order must belong to the token's user %q, got %q", userID, placed.Data.UserID)
	}
	if placed.Data.TotalPrice != 24 {
		t.Fatalf("expected total 24, got %v", placed.Data.TotalPrice)
	}
}

func TestUserOrdersOwnership(t *testing.T) {
	env := newTestEnv(t)
	shopperToken, shopperID := env.tokenFor(t, "shopper@example.com", false)
	adminToken, _ := env.tokenFor(t, "root@example.com", true)

	if resp := env.do(http.MethodGet, "/api/v1/orders/get/userorders/"+shopperID, shopperToken, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 reading own orders, got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/api/v1/orders/get/userorders/someone-else", shopperToken, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 reading another user's orders, got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/api/v1/orders/get/userorders/"+shopperID, adminToken, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin reading any user's orders, got %d", resp.Code)
	}
}

func TestRegisterThroughGateStripsAdminFlag(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/api/v1/users/register", "", identityhttp.RegisterRequest{
		Name:     "Sneaky",
		Email:    "sneaky@example.com",
		Password: "swordfish-swordfish",
		IsAdmin:  true,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for registration, got %d: %s", resp.Code, resp.Body.String())
	}

	login, err := env.identity.Handler.LoginHandler(context.Background(), identityhttp.LoginRequest{
		Email:    "sneaky@example.com",
		Password: "swordfish-swordfish",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := env.identity.Tokens.Verify(login.Token)
	if err != nil {
		t.Fatalf("token verify failed: %v", err)
	}
	if claims.IsAdmin {
		t.Fatal("self-service registration must not grant the admin role")
	}
}

func TestLoginThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	env.tokenFor(t, "alice@example.com", false)

	resp := env.do(http.MethodPost, "/api/v1/users/login", "", identityhttp.LoginRequest{
		Email:    "alice@example.com",
		Password: "swordfish-swordfish",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d: %s", resp.Code, resp.Body.String())
	}

	var login identityhttp.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.User != "alice@example.com" || login.Token == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	bad := env.do(http.MethodPost, "/api/v1/users/login", "", identityhttp.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad credentials, got %d", bad.Code)
	}
}

func TestCreateProductMultipart(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.tokenFor(t, "root@example.com", true)

	category, err := env.catalog.Handler.CreateCategoryHandler(context.Background(), cataloghttp.CategoryRequest{Name: "lighting"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="desk lamp.png"`},
		"Content-Type":        {"image/png"},
	})
	if err != nil {
		t.Fatalf("create image part: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write image part: %v", err)
	}
	fields := map[string]string{
		"name":         "Desk Lamp",
		"description":  "A small desk lamp",
		"price":        "19.5",
		"category":     category.Data.CategoryID,
		"countInStock": "12",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201 for product create, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var created cataloghttp.ProductResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode product response: %v", err)
	}
	if !strings.Contains(created.Data.Image, "/public/uploads/") {
		t.Fatalf("expected image under public uploads, got %q", created.Data.Image)
	}
	if !strings.HasSuffix(created.Data.Image, ".png") {
		t.Fatalf("expected png extension, got %q", created.Data.Image)
	}
}

func TestCreateProductRejectsNonImageUpload(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.tokenFor(t, "root@example.com", true)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="evil.sh"`},
		"Content-Type":        {"application/x-sh"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("#!/bin/sh")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d: %s", recorder.Code, recorder.Body.String())
	}
}
