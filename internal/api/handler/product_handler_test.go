package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/catalog-api/internal/core/domain"
	"github.com/shopstack/catalog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCatalogService struct {
	createIn   ports.CreateProductInput
	updateIn   ports.UpdateProductInput
	listParams ports.ListProductsParams
	deletedID  string

	product *domain.Product
	listRes *ports.ListProductsResult
	err     error
}

func (s *stubCatalogService) Create(_ context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	s.createIn = in
	return s.product, s.err
}

func (s *stubCatalogService) List(_ context.Context, p ports.ListProductsParams) (*ports.ListProductsResult, error) {
	s.listParams = p
	return s.listRes, s.err
}

func (s *stubCatalogService) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) Update(_ context.Context, in ports.UpdateProductInput) (*domain.Product, error) {
	s.updateIn = in
	return s.product, s.err
}

func (s *stubCatalogService) Delete(_ context.Context, id, _, _ string) error {
	s.deletedID = id
	return s.err
}

type stubBlobStore struct {
	filename string
	url      string
}

func (s *stubBlobStore) Store(_ context.Context, filename string, r io.Reader) (string, error) {
	s.filename = filename
	_, _ = io.Copy(io.Discard, r)
	return s.url, nil
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:          "64f1b2c3d4e5f60718293a4b",
		Name:        "Widget",
		Description: "a widget",
		Category:    "tools",
		Price:       19.99,
		Rating:      4,
		OwnerID:     "user_1",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func authenticate(c echo.Context, userID, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
}

func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// List / Get
// ---------------------------------------------------------------------------

func TestProductHandler_List(t *testing.T) {
	svc := &stubCatalogService{
		listRes: &ports.ListProductsResult{
			Items:      []*domain.Product{sampleProduct()},
			Total:      12,
			Page:       2,
			Limit:      5,
			TotalPages: 3,
		},
	}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	q := "?category=tools&minPrice=10&maxPrice=50&search=wid&userId=user_1&sortBy=price&sortOrder=asc&page=2&limit=5"
	req := httptest.NewRequest(http.MethodGet, "/v1/products"+q, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Query params must reach the service verbatim.
	p := svc.listParams
	if p.Category != "tools" || p.MinPrice != "10" || p.MaxPrice != "50" ||
		p.Search != "wid" || p.OwnerID != "user_1" || p.SortBy != "price" ||
		p.SortOrder != "asc" || p.Page != "2" || p.Limit != "5" {
		t.Errorf("unexpected list params: %+v", p)
	}

	var resp listProductsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Data))
	}
	pg := resp.Pagination
	if pg.Total != 12 || pg.Page != 2 || pg.Limit != 5 || pg.TotalPages != 3 {
		t.Errorf("unexpected pagination: %+v", pg)
	}
}

func TestProductHandler_Get(t *testing.T) {
	svc := &stubCatalogService{product: sampleProduct()}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/products/:id")
	c.SetParamNames("id")
	c.SetParamValues("64f1b2c3d4e5f60718293a4b")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "64f1b2c3d4e5f60718293a4b" || resp.Price != 19.99 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	svc := &stubCatalogService{err: domain.ErrProductNotFound}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Get(c)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound to propagate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductHandler_Create(t *testing.T) {
	svc := &stubCatalogService{product: sampleProduct()}
	blobs := &stubBlobStore{url: "/uploads/upload-ABC123.jpg"}
	h := NewProductHandler(svc, blobs)
	e := newTestEcho()

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Widget",
		"description": "a widget",
		"category":    "tools",
		"price":       "19.99",
		"rating":      "4",
	}, "photo.jpg")

	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("Idempotency-Key", "key-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, "user_1", domain.RoleUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	in := svc.createIn
	if in.OwnerID != "user_1" {
		t.Errorf("owner must come from the token, got %q", in.OwnerID)
	}
	if in.Price != "19.99" || in.Rating != "4" {
		t.Errorf("form values must pass through raw: %+v", in)
	}
	if in.ImageURL != "/uploads/upload-ABC123.jpg" {
		t.Errorf("image url must come from the blob store, got %q", in.ImageURL)
	}
	if in.IdempotencyKey != "key-123" {
		t.Errorf("idempotency key must come from the header, got %q", in.IdempotencyKey)
	}
	if blobs.filename != "photo.jpg" {
		t.Errorf("blob store must receive the original filename, got %q", blobs.filename)
	}
}

func TestProductHandler_Create_NoImage(t *testing.T) {
	svc := &stubCatalogService{product: sampleProduct()}
	blobs := &stubBlobStore{url: "/uploads/should-not-be-used"}
	h := NewProductHandler(svc, blobs)
	e := newTestEcho()

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Widget",
		"description": "a widget",
		"category":    "tools",
		"price":       "19.99",
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, "user_1", domain.RoleUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.createIn.ImageURL != "" {
		t.Errorf("no upload means no image url, got %q", svc.createIn.ImageURL)
	}
	if blobs.filename != "" {
		t.Error("blob store must not be called without an image part")
	}
}

func TestProductHandler_Create_MissingClaims(t *testing.T) {
	h := NewProductHandler(&stubCatalogService{}, &stubBlobStore{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/v1/products", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestProductHandler_Create_ValidationFailure(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	body, contentType := multipartBody(t, map[string]string{
		"name": "Widget",
		// description, category and price missing
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c := e.NewContext(req, httptest.NewRecorder())
	authenticate(c, "user_1", domain.RoleUser)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if svc.createIn.Name != "" {
		t.Error("service must not be called on validation failure")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestProductHandler_Update_PartialFields(t *testing.T) {
	svc := &stubCatalogService{product: sampleProduct()}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	form := url.Values{}
	form.Set("price", "42.50")

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("64f1b2c3d4e5f60718293a4b")
	authenticate(c, "user_1", domain.RoleUser)

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := svc.updateIn
	if in.Price == nil || *in.Price != "42.50" {
		t.Errorf("price must be set, got %v", in.Price)
	}
	if in.Name != nil || in.Description != nil || in.Category != nil || in.Rating != nil {
		t.Errorf("absent form fields must stay nil: %+v", in)
	}
	if in.ImageURL != nil {
		t.Error("no upload means no image field in the patch")
	}
	if in.CallerID != "user_1" || in.CallerRole != domain.RoleUser {
		t.Errorf("caller identity must come from the token: %+v", in)
	}
}

func TestProductHandler_Update_Forbidden(t *testing.T) {
	svc := &stubCatalogService{err: domain.ErrForbidden}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	form := url.Values{}
	form.Set("name", "hijacked")

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("64f1b2c3d4e5f60718293a4b")
	authenticate(c, "user_2", domain.RoleUser)

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestProductHandler_Delete(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("64f1b2c3d4e5f60718293a4b")
	authenticate(c, "user_1", domain.RoleUser)

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deletedID != "64f1b2c3d4e5f60718293a4b" {
		t.Errorf("unexpected deleted id %q", svc.deletedID)
	}
	if !strings.Contains(rec.Body.String(), "product deleted") {
		t.Errorf("expected confirmation message, got %s", rec.Body.String())
	}
}

func TestProductHandler_Delete_MissingClaims(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewProductHandler(svc, &stubBlobStore{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("64f1b2c3d4e5f60718293a4b")

	err := h.Delete(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if svc.deletedID != "" {
		t.Error("service must not be called without claims")
	}
}
