package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/stitchstyle/internal/catalog"
	"github.com/nikolayk812/stitchstyle/internal/checkout"
	"github.com/nikolayk812/stitchstyle/internal/domain"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items          []domain.CartItem `json:"items"`
	TotalItems     int               `json:"totalItems"`
	TotalPrice     int64             `json:"totalPrice"`
	TotalFormatted string            `json:"totalFormatted"`
	ShippingFee    int64             `json:"shippingFee"`
	GrandTotal     string            `json:"grandTotal"`
}

type orderResponse struct {
	ID          string                 `json:"id"`
	User        domain.User            `json:"user"`
	Items       []domain.CartItem      `json:"items"`
	Shipping    domain.ShippingDetails `json:"shipping"`
	Subtotal    string                 `json:"subtotal"`
	ShippingFee string                 `json:"shippingFee"`
	Total       string                 `json:"total"`
	PlacedAt    time.Time              `json:"placedAt"`
}

// --- auth ---

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		s.writeError(c, err)
		return
	}

	s.me(c)
}

func (s *Server) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.session.Signup(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		s.writeError(c, err)
		return
	}

	s.me(c)
}

func (s *Server) logout(c *gin.Context) {
	s.session.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	user, ok := s.session.User()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- catalog ---

func (s *Server) listProducts(c *gin.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Sort:     c.DefaultQuery("sort", catalog.SortNewest),
	}

	var err error
	if q.MinPrice, err = priceParam(c, "min_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must be a whole number"})
		return
	}
	if q.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a whole number"})
		return
	}

	products := s.catalog.Filter(q)
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"maxPrice": s.catalog.MaxPrice(),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	product, ok := s.catalog.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.catalog.Categories()})
}

// --- cart ---

func (s *Server) getCart(c *gin.Context) {
	snapshot := s.cart.Cart()
	items := snapshot.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	c.JSON(http.StatusOK, cartResponse{
		Items:          items,
		TotalItems:     snapshot.TotalItems(),
		TotalPrice:     snapshot.TotalPrice(),
		TotalFormatted: domain.KES(snapshot.TotalPrice()).String(),
		ShippingFee:    checkout.ShippingFee,
		GrandTotal:     domain.KES(snapshot.TotalPrice() + checkout.ShippingFee).String(),
	})
}

func (s *Server) addCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if !quantityInRange(c, req.Quantity) {
		return
	}

	product, ok := s.findProduct(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	s.cart.AddItem(c.Request.Context(), product, req.Quantity)
	s.getCart(c)
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !quantityInRange(c, req.Quantity) {
		return
	}

	s.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	s.getCart(c)
}

func (s *Server) removeCartItem(c *gin.Context) {
	s.cart.RemoveItem(c.Request.Context(), c.Param("id"))
	s.getCart(c)
}

func (s *Server) clearCart(c *gin.Context) {
	s.cart.Clear(c.Request.Context())
	s.getCart(c)
}

func (s *Server) placeOrder(c *gin.Context) {
	var details domain.ShippingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := s.checkout.PlaceOrder(c.Request.Context(), details)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, orderResponse{
		ID:          order.ID.String(),
		User:        order.User,
		Items:       order.Items,
		Shipping:    order.Shipping,
		Subtotal:    order.Subtotal.String(),
		ShippingFee: order.ShippingFee.String(),
		Total:       order.Total.String(),
		PlacedAt:    order.PlacedAt,
	})
}

// findProduct looks in the catalog first, then among the current recommendations.
func (s *Server) findProduct(id string) (domain.Product, bool) {
	if product, ok := s.catalog.Product(id); ok {
		return product, true
	}

	for _, product := range s.tool.State().Recommendations {
		if product.ID == id {
			return product, true
		}
	}

	return domain.Product{}, false
}

// --- recommendations ---

func (s *Server) recommendationState(c *gin.Context) {
	c.JSON(http.StatusOK, s.tool.State())
}

func (s *Server) suggestKeywords(c *gin.Context) {
	var req struct {
		Occasion string `json:"occasion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.tool.Suggest(c.Request.Context(), req.Occasion); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.tool.State())
}

func (s *Server) recommend(c *gin.Context) {
	var req struct {
		BrowsingActivity string `json:"browsingActivity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.tool.Recommend(c.Request.Context(), req.BrowsingActivity); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.tool.State())
}

func (s *Server) togglePreference(c *gin.Context) {
	preferences := s.tool.TogglePreference(c.Param("keyword"))
	c.JSON(http.StatusOK, gin.H{"preferences": preferences})
}

// quantityInRange answers 400 for quantities above domain.MaxQuantity.
func quantityInRange(c *gin.Context, quantity int) bool {
	if quantity > domain.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("quantity must be at most %d", domain.MaxQuantity)})
		return false
	}
	return true
}

func priceParam(c *gin.Context, name string) (int64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
