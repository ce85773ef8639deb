package gateway

import (
	"net/http"

	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=99"`
	Size     string `json:"size"`
}

type updateItemRequest struct {
	Quantity *int   `json:"quantity" binding:"required,min=0,max=99"`
	Size     string `json:"size"`
}

type cartResponse struct {
	Items       cart.Cart `json:"items"`
	Total       int64     `json:"total"`
	Count       int       `json:"count"`
	DeliveryFee int64     `json:"deliveryFee"`
	GrandTotal  int64     `json:"grandTotal"`
}

func (g *Gateway) cartResponse(c cart.Cart) cartResponse {
	if c == nil {
		c = cart.Cart{}
	}
	resp := cartResponse{
		Items:       c,
		Total:       c.Total(),
		Count:       c.Count(),
		DeliveryFee: g.config.Restaurant.DeliveryFee,
	}
	if len(c) > 0 {
		resp.GrandTotal = resp.Total + resp.DeliveryFee
	}
	return resp
}

func (g *Gateway) storageFailure(c *gin.Context, err error) {
	g.logger.Error("Cart storage failed", zap.String("session", sessionID(c)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
}

func (g *Gateway) getCart(c *gin.Context) {
	current, err := g.carts.Cart(c.Request.Context(), sessionID(c))
	if err != nil {
		g.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, g.cartResponse(current))
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := g.catalog.Item(req.ItemID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	size, err := pickSize(item, req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := g.carts.AddToCart(c.Request.Context(), sessionID(c), item, req.Quantity, size)
	if err != nil {
		g.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, g.cartResponse(updated))
}

func (g *Gateway) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := g.carts.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("id"), *req.Quantity, req.Size)
	if err != nil {
		g.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, g.cartResponse(updated))
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	updated, err := g.carts.RemoveFromCart(c.Request.Context(), sessionID(c), c.Param("id"), c.Query("size"))
	if err != nil {
		g.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, g.cartResponse(updated))
}

func (g *Gateway) clearCart(c *gin.Context) {
	if err := g.carts.ClearCart(c.Request.Context(), sessionID(c)); err != nil {
		g.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, g.cartResponse(nil))
}

type unknownSizeError struct {
	item, size string
}

func (e unknownSizeError) Error() string {
	return e.item + " has no size " + e.size
}

// pickSize resolves the requested size of item. Sized items default to their
// first size, as the item page preselects it.
func pickSize(item models.MenuItem, name string) (*models.Size, error) {
	if len(item.Sizes) == 0 {
		if name != "" {
			return nil, unknownSizeError{item: item.Name, size: name}
		}
		return nil, nil
	}
	if name == "" {
		size := item.Sizes[0]
		return &size, nil
	}
	size, ok := item.SizeByName(name)
	if !ok {
		return nil, unknownSizeError{item: item.Name, size: name}
	}
	return &size, nil
}
