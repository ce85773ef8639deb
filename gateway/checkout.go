package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// submitOrder accepts the multipart checkout form. The session cart is the
// source of truth; the posted cart snapshot is only used when the session
// cart is empty, for clients that keep the cart themselves, and is repriced
// from the catalog first.
func (g *Gateway) submitOrder(c *gin.Context) {
	ctx := c.Request.Context()
	if g.config.HTTP.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.HTTP.RequestTimeout)
		defer cancel()
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, g.config.HTTP.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(g.config.HTTP.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment screenshot is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form submission"})
		return
	}

	req := &order.Request{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Phone:   c.PostForm("phone"),
		Address: c.PostForm("address"),
		Notes:   c.PostForm("notes"),
		Total:   parseTotal(c.PostForm("total")),
	}

	session := sessionID(c)
	current, err := g.carts.Cart(ctx, session)
	if err != nil {
		g.storageFailure(c, err)
		return
	}
	if len(current) == 0 {
		if raw := c.PostForm("cart"); raw != "" {
			current, err = g.postedCart(raw)
			if err != nil {
				g.logger.Debug("Rejected posted cart", zap.Error(err))
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is invalid"})
				return
			}
		}
	}
	req.Cart = current

	proof, err := readProof(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payment screenshot"})
		return
	}
	req.Proof = proof

	orderID, err := g.orders.Submit(ctx, req)
	if err != nil {
		g.orderFailure(c, err)
		return
	}

	if err := g.carts.ClearCart(ctx, session); err != nil {
		g.logger.Warn("Failed to clear cart after order",
			zap.String("order_id", orderID),
			zap.String("session", session),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": orderID,
	})
}

// postedCart decodes a client cart snapshot and rebuilds every line from the
// catalog, so item details and unit prices are the server's own.
func (g *Gateway) postedCart(raw string) (cart.Cart, error) {
	posted, err := cart.Decode("checkout", []byte(raw))
	if err != nil {
		return nil, err
	}

	out := cart.Cart{}
	for _, line := range posted {
		item, ok := g.catalog.Item(line.Item.ID)
		if !ok {
			return nil, fmt.Errorf("unknown item %q", line.Item.ID)
		}
		var sizeName string
		if line.SelectedSize != nil {
			sizeName = line.SelectedSize.Name
			if sizeName == "" {
				return nil, unknownSizeError{item: item.Name, size: sizeName}
			}
		}
		size, err := pickSize(item, sizeName)
		if err != nil {
			return nil, err
		}
		out = cart.Apply(out, cart.Add(item, line.Quantity, size))
	}
	return out, nil
}

func (g *Gateway) orderFailure(c *gin.Context, err error) {
	var verr *order.ValidationError
	var terr *order.TransportError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.As(err, &terr):
		g.logger.Error("Order notification failed",
			zap.String("order_id", terr.OrderID),
			zap.String("recipient", string(terr.Recipient)),
			zap.Error(terr.Err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to process order"})
	default:
		g.logger.Error("Order submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process order"})
	}
}

func readProof(c *gin.Context) (*order.Proof, error) {
	file, header, err := c.Request.FormFile("screenshot")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return order.NewProof(header.Filename, data), nil
}

// parseTotal reads the total the client displayed. It is informational only,
// so anything unparsable becomes zero.
func parseTotal(raw string) int64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}
