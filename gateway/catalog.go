package gateway

import (
	"net/http"
	"strconv"

	"github.com/example/buttg/pkg/catalog"
	"github.com/gin-gonic/gin"
)

const relatedItems = 3

func (g *Gateway) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": g.catalog.CategoryNames()})
}

func (g *Gateway) listDeals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"deals": g.catalog.Deals()})
}

func (g *Gateway) listPopular(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": g.catalog.Popular()})
}

func (g *Gateway) listMenu(c *gin.Context) {
	filter := catalog.Filter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Sort:     catalog.SortOrder(c.DefaultQuery("sort", string(catalog.SortByName))),
	}
	switch filter.Sort {
	case catalog.SortByName, catalog.SortPriceLow, catalog.SortPriceHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of name, price-low, price-high"})
		return
	}

	var err error
	if filter.MinPrice, err = priceParam(c, "min_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := g.catalog.List(filter)
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (g *Gateway) getMenuItem(c *gin.Context) {
	item, ok := g.catalog.Item(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":    item,
		"related": g.catalog.Related(item, relatedItems),
	})
}

type paramError struct{ name string }

func (e paramError) Error() string {
	return e.name + " must be a non-negative integer"
}

func priceParam(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, paramError{name: name}
	}
	return v, nil
}
