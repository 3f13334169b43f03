package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// CatalogHandler handles HTTP requests for catalog listings.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required"`
}

type productListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// Create handles POST /api/v1/products (admin only).
//
// @Summary      Create a catalog listing
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Listing details; price is a decimal string"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/products [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	userID, _, err := ctxUser(c)
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

	product, err := h.service.Create(c.Request().Context(), ports.CreateProductInput{
		SellerID:    userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Get handles GET /api/v1/products/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// List handles GET /api/v1/products.
func (h *CatalogHandler) List(c echo.Context) error {
	page, limit := pagination(c)
	products, total, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return c.JSON(http.StatusOK, productListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// pagination reads ?page and ?limit with sane defaults.
func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
