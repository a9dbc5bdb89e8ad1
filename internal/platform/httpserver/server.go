package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"eshop/contexts/catalog"
	cataloghttp "eshop/contexts/catalog/transport/http"
	"eshop/contexts/identity"
	identityhttp "eshop/contexts/identity/transport/http"
	"eshop/contexts/ordering"
	orderinghttp "eshop/contexts/ordering/transport/http"
	"eshop/internal/platform/uploads"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "eshop/internal/platform/httpserver/docs"
)

const (
	maxMultipartMemory = 32 << 20
	maxGalleryImages   = 10
)

type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	addr     string
	prefix   string
	identity identity.Module
	catalog  catalog.Module
	ordering ordering.Module
	uploads  *uploads.Store
}

func New(
	identityModule identity.Module,
	catalogModule catalog.Module,
	orderingModule ordering.Module,
	uploadStore *uploads.Store,
	logger *slog.Logger,
	addr string,
	apiPrefix string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if apiPrefix == "" {
		apiPrefix = "/api/v1"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		prefix:   apiPrefix,
		identity: identityModule,
		catalog:  catalogModule,
		ordering: orderingModule,
		uploads:  uploadStore,
	}
	s.registerRoutes()

	gate := NewAccessGate(identityModule.Tokens, apiPrefix, logger)
	s.handler = s.logRequests(gate.Wrap(s.mux))
	return s
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			"event", "http_request",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
		)
	})
}

// Handler returns the full request chain including the access gate.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if s.uploads != nil {
		s.mux.Handle("GET /public/uploads/",
			http.StripPrefix("/public/uploads/", http.FileServer(http.Dir(s.uploads.Dir()))))
	}

	p := s.prefix
	s.mux.HandleFunc("GET "+p+"/categories", s.handleListCategories)
	s.mux.HandleFunc("GET "+p+"/categories/{id}", s.handleGetCategory)
	s.mux.HandleFunc("POST "+p+"/categories", s.handleCreateCategory)
	s.mux.HandleFunc("PUT "+p+"/categories/{id}", s.handleUpdateCategory)
	s.mux.HandleFunc("DELETE "+p+"/categories/{id}", s.handleDeleteCategory)

	s.mux.HandleFunc("GET "+p+"/products", s.handleListProducts)
	s.mux.HandleFunc("GET "+p+"/products/{id}", s.handleGetProduct)
	s.mux.HandleFunc("POST "+p+"/products", s.handleCreateProduct)
	s.mux.HandleFunc("PUT "+p+"/products/{id}", s.handleUpdateProduct)
	s.mux.HandleFunc("DELETE "+p+"/products/{id}", s.handleDeleteProduct)
	s.mux.HandleFunc("GET "+p+"/products/get/count", s.handleCountProducts)
	s.mux.HandleFunc("GET "+p+"/products/get/featured/{count}", s.handleListFeatured)
	s.mux.HandleFunc("PUT "+p+"/products/gallery-images/{id}", s.handleProductGallery)

	s.mux.HandleFunc("GET "+p+"/users", s.handleListUsers)
	s.mux.HandleFunc("GET "+p+"/users/{id}", s.handleGetUser)
	s.mux.HandleFunc("POST "+p+"/users", s.handleRegisterUser)
	s.mux.HandleFunc("POST "+p+"/users/register", s.handleRegisterUser)
	s.mux.HandleFunc("POST "+p+"/users/login", s.handleLogin)
	s.mux.HandleFunc("DELETE "+p+"/users/{id}", s.handleDeleteUser)
	s.mux.HandleFunc("GET "+p+"/users/get/count", s.handleCountUsers)

	s.mux.HandleFunc("GET "+p+"/orders", s.handleListOrders)
	s.mux.HandleFunc("GET "+p+"/orders/{id}", s.handleGetOrder)
	s.mux.HandleFunc("POST "+p+"/orders", s.handlePlaceOrder)
	s.mux.HandleFunc("PUT "+p+"/orders/{id}", s.handleUpdateOrderStatus)
	s.mux.HandleFunc("DELETE "+p+"/orders/{id}", s.handleDeleteOrder)
	s.mux.HandleFunc("GET "+p+"/orders/get/totalsales", s.handleTotalSales)
	s.mux.HandleFunc("GET "+p+"/orders/get/count", s.handleCountOrders)
	s.mux.HandleFunc("GET "+p+"/orders/get/userorders/{userid}", s.handleUserOrders)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListCategoriesHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetCategoryHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateCategoryHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateCategoryHandler(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.DeleteCategoryHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var categoryIDs []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		categoryIDs = strings.Split(raw, ",")
	}
	resp, err := s.catalog.Handler.ListProductsHandler(r.Context(), categoryIDs)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetProductHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateProduct accepts a multipart form: product fields plus one
// required "image" file part. The stored file is exposed under the public
// uploads route and its URL persisted on the product.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", "request body must be multipart form data")
		return
	}

	_, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_required", "no image file in the request")
		return
	}

	fileName, err := s.uploads.Save(header)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}

	req := productRequestFromForm(r)
	req.Image = uploadBaseURL(r) + fileName

	resp, err := s.catalog.Handler.CreateProductHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateProductHandler(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.DeleteProductHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCountProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.CountProductsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFeatured(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.PathValue("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_count", "count must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.catalog.Handler.ListFeaturedHandler(r.Context(), limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProductGallery replaces a product's gallery with the uploaded
// "images" file parts, at most maxGalleryImages per request.
func (s *Server) handleProductGallery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", "request body must be multipart form data")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "image_required", "no image files in the request")
		return
	}
	if len(files) > maxGalleryImages {
		writeError(w, http.StatusBadRequest, "too_many_images", "at most 10 gallery images per request")
		return
	}

	base := uploadBaseURL(r)
	imageURLs := make([]string, 0, len(files))
	for _, header := range files {
		fileName, err := s.uploads.Save(header)
		if err != nil {
			writeCatalogDomainError(w, err)
			return
		}
		imageURLs = append(imageURLs, base+fileName)
	}

	resp, err := s.catalog.Handler.SetGalleryHandler(r.Context(), r.PathValue("id"), imageURLs)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.ListUsersHandler(r.Context())
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.GetUserHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	// Only an authenticated admin may grant the admin role; self-service
	// registration always produces a regular user.
	if claims, ok := ClaimsFromContext(r.Context()); !ok || !claims.IsAdmin {
		req.IsAdmin = false
	}

	resp, err := s.identity.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.DeleteUserHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCountUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.CountUsersHandler(r.Context())
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.ListOrdersHandler(r.Context())
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.GetOrderHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePlaceOrder takes the buyer identity from the verified token, never
// from the request body.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing token claims")
		return
	}

	var req orderinghttp.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ordering.Handler.PlaceOrderHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderinghttp.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ordering.Handler.UpdateStatusHandler(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.DeleteOrderHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTotalSales(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.TotalSalesHandler(r.Context())
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCountOrders(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ordering.Handler.CountOrdersHandler(r.Context())
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUserOrders lets a user read their own order history; reading another
// user's history requires the admin role.
func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userid")

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing token claims")
		return
	}
	if !claims.IsAdmin && claims.UserID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "cannot read another user's orders")
		return
	}

	resp, err := s.ordering.Handler.ListUserOrdersHandler(r.Context(), userID)
	if err != nil {
		writeOrderingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func productRequestFromForm(r *http.Request) cataloghttp.ProductRequest {
	return cataloghttp.ProductRequest{
		Name:            r.FormValue("name"),
		Description:     r.FormValue("description"),
		RichDescription: r.FormValue("richDescription"),
		Brand:           r.FormValue("brand"),
		Price:           formFloat(r, "price"),
		Category:        r.FormValue("category"),
		CountInStock:    formInt(r, "countInStock"),
		Rating:          formFloat(r, "rating"),
		NumReviews:      formInt(r, "numReviews"),
		IsFeatured:      formBool(r, "isFeatured"),
	}
}

func formFloat(r *http.Request, key string) float64 {
	value, _ := strconv.ParseFloat(r.FormValue(key), 64)
	return value
}

func formInt(r *http.Request, key string) int {
	value, _ := strconv.Atoi(r.FormValue(key))
	return value
}

func formBool(r *http.Request, key string) bool {
	value, _ := strconv.ParseBool(r.FormValue(key))
	return value
}

// uploadBaseURL builds the public URL prefix for stored images from the
// request's own host, mirroring how clients reached the API.
func uploadBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/public/uploads/"
}
