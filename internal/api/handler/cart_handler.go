package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/ports"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.service.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:productId.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	cart, err := h.service.RemoveItem(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	cart, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
