package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/catalog-api/internal/api/metrics"
	"github.com/shopstack/catalog-api/internal/core/domain"
	"github.com/shopstack/catalog-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service ports.ProductService
	blobs   ports.BlobStore
}

func NewProductHandler(service ports.ProductService, blobs ports.BlobStore) *ProductHandler {
	return &ProductHandler{service: service, blobs: blobs}
}

// List handles GET /v1/products. Reads are public.
//
// @Summary      List products with filtering, sorting and pagination
// @Tags         products
// @Produce      json
// @Param        category   query     string  false  "Exact category match"
// @Param        minPrice   query     string  false  "Inclusive lower price bound"
// @Param        maxPrice   query     string  false  "Inclusive upper price bound"
// @Param        minRating  query     string  false  "Inclusive lower rating bound"
// @Param        search     query     string  false  "Case-insensitive substring over name or description"
// @Param        userId     query     string  false  "Only products owned by this user"
// @Param        sortBy     query     string  false  "Sort field (default created_at)"
// @Param        sortOrder  query     string  false  "asc or desc (default desc)"
// @Param        page       query     string  false  "1-based page (default 1)"
// @Param        limit      query     string  false  "Page size (default 10)"
// @Success      200        {object}  listProductsResponse
// @Failure      503        {object}  map[string]string
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	start := time.Now()

	result, err := h.service.List(c.Request().Context(), toListParams(c))
	if err != nil {
		return err
	}

	metrics.ProductListDuration.Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /v1/products/:id.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Create handles POST /v1/products. The caller becomes the owner. An optional
// "image" file part is stored and its URL recorded on the product.
//
// @Summary      Create a product
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Param        name             formData  string  true   "Product name"
// @Param        description      formData  string  true   "Description"
// @Param        category         formData  string  true   "Category"
// @Param        price            formData  string  true   "Price"
// @Param        rating           formData  string  false  "Rating (0-5)"
// @Param        image            formData  file    false  "Product image"
// @Success      201              {object}  productResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imageURL, err := h.storeImage(c)
	if err != nil {
		return err
	}

	input := toCreateInput(req, userID, imageURL, c.Request().Header.Get("Idempotency-Key"))
	product, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(product.Category).Inc()
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /v1/products/:id. Only form fields that were actually
// sent are applied; everything else stays as stored.
//
// @Summary      Update a product (owner or admin only)
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Product id"
// @Param        image  formData  file    false  "Replacement image"
// @Success      200    {object}  productResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.UpdateProductInput{
		ID:          c.Param("id"),
		CallerID:    userID,
		CallerRole:  role,
		Name:        formValuePtr(c, "name"),
		Description: formValuePtr(c, "description"),
		Category:    formValuePtr(c, "category"),
		Price:       formValuePtr(c, "price"),
		Rating:      formValuePtr(c, "rating"),
	}

	imageURL, err := h.storeImage(c)
	if err != nil {
		return err
	}
	if imageURL != "" {
		input.ImageURL = &imageURL
	}

	product, err := h.service.Update(c.Request().Context(), input)
	if err != nil {
		metrics.ProductMutationsTotal.WithLabelValues("update", mutationOutcome(err)).Inc()
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /v1/products/:id.
//
// @Summary      Delete a product (owner or admin only)
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID, role); err != nil {
		metrics.ProductMutationsTotal.WithLabelValues("delete", mutationOutcome(err)).Inc()
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

// storeImage persists the optional "image" file part and returns its URL, or
// "" when no image was uploaded.
func (h *ProductHandler) storeImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	defer src.Close()

	return h.blobs.Store(c.Request().Context(), file.Filename, src)
}

// formValuePtr distinguishes an absent form field (nil) from one sent with a
// value, which is what makes partial updates possible.
func formValuePtr(c echo.Context, name string) *string {
	form, err := c.FormParams()
	if err != nil {
		return nil
	}
	vs, ok := form[name]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func mutationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "denied"
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInvalidID):
		return "not_found"
	default:
		return "error"
	}
}
