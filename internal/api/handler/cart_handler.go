package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

type CartHandler struct {
	cart ports.CartService
}

func NewCartHandler(cart ports.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	PlantID  domain.ID `json:"plantId" validate:"required"`
	Name     string    `json:"name"`
	Price    float64   `json:"price" validate:"gte=0"`
	Quantity int       `json:"quantity" validate:"gte=0"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items     domain.Cart `json:"items"`
	ItemCount int         `json:"itemCount"`
	Total     float64     `json:"total"`
}

func (h *CartHandler) state() cartResponse {
	items := h.cart.Items()
	if items == nil {
		items = domain.Cart{}
	}
	return cartResponse{Items: items, ItemCount: h.cart.ItemCount(), Total: h.cart.Total()}
}

// Show returns the cart contents and its derived totals.
//
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Router       /_state/cart [get]
func (h *CartHandler) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state())
}

// AddItem adds quantity units of a plant. A missing quantity adds one.
//
// @Summary      Add a plant
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addItemRequest  true  "Line item"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  map[string]string
// @Router       /_state/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if err := h.cart.AddItem(req.PlantID, req.Name, req.Price, qty); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.state())
}

// SetQuantity overwrites the quantity of a line. Zero or less removes it.
//
// @Summary      Set a quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        plantId  path      string              true  "Plant ID"
// @Param        body     body      setQuantityRequest  true  "New quantity"
// @Success      200      {object}  cartResponse
// @Failure      400      {object}  map[string]string
// @Router       /_state/cart/items/{plantId} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.cart.SetQuantity(domain.ID(c.Param("plantId")), req.Quantity)
	return c.JSON(http.StatusOK, h.state())
}

// RemoveItem drops a line.
//
// @Summary      Remove a plant
// @Tags         cart
// @Produce      json
// @Param        plantId  path      string  true  "Plant ID"
// @Success      200      {object}  cartResponse
// @Router       /_state/cart/items/{plantId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	h.cart.RemoveItem(domain.ID(c.Param("plantId")))
	return c.JSON(http.StatusOK, h.state())
}

// Clear empties the cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Router       /_state/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	h.cart.Clear()
	return c.JSON(http.StatusOK, h.state())
}
