package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

type orderListResponse struct {
	Orders []*domain.Order `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// OrderHandler handles HTTP requests for checkout and order lifecycle.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Checkout handles POST /api/v1/orders.
//
// @Summary      Checkout the cart into an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.Checkout(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	orders, total, err := h.service.List(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return c.JSON(http.StatusOK, orderListResponse{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.Get(c.Request().Context(), c.Param("id"), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Complete handles POST /api/v1/orders/:id/complete.
func (h *OrderHandler) Complete(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.Complete(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
