// Package httpapi exposes the storefront stores to the presentation layer over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/stitchstyle/internal/cart"
	"github.com/nikolayk812/stitchstyle/internal/catalog"
	"github.com/nikolayk812/stitchstyle/internal/checkout"
	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/recommend"
	"github.com/nikolayk812/stitchstyle/internal/session"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Catalog  *catalog.Catalog
	Session  *session.Store
	Cart     *cart.Store
	Checkout *checkout.Service
	Tool     *recommend.Tool
	Log      logrus.FieldLogger

	// AllowOrigins enables CORS for these origins; empty disables it.
	AllowOrigins []string
}

type Server struct {
	catalog  *catalog.Catalog
	session  *session.Store
	cart     *cart.Store
	checkout *checkout.Service
	tool     *recommend.Tool
	log      logrus.FieldLogger
	origins  []string
}

func New(deps Deps) *Server {
	return &Server{
		catalog:  deps.Catalog,
		session:  deps.Session,
		cart:     deps.Cart,
		checkout: deps.Checkout,
		tool:     deps.Tool,
		log:      deps.Log.WithField("component", "http"),
		origins:  deps.AllowOrigins,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/logout", s.logout)
	authGroup.GET("/me", s.me)

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/categories", s.listCategories)

	protected := api.Group("", s.requireSession())
	protected.GET("/cart", s.getCart)
	protected.POST("/cart/items", s.addCartItem)
	protected.PATCH("/cart/items/:id", s.updateCartItem)
	protected.DELETE("/cart/items/:id", s.removeCartItem)
	protected.DELETE("/cart", s.clearCart)
	protected.POST("/checkout", s.placeOrder)

	rec := api.Group("/recommendations")
	rec.GET("", s.recommendationState)
	rec.POST("", s.recommend)
	rec.POST("/keywords", s.suggestKeywords)
	rec.POST("/preferences/:keyword", s.togglePreference)

	return r
}

// requireSession answers 401 while nobody is logged in.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.session.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.WithFields(logrus.Fields{
			"http.req.method":   c.Request.Method,
			"http.req.path":     c.Request.URL.Path,
			"http.resp.status":  c.Writer.Status(),
			"http.resp.took_ms": time.Since(start).Milliseconds(),
		}).Debug("request complete")
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		serviceErr    *domain.RecommendationServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			body["fields"] = validationErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, session.ErrLoginFailed), errors.Is(err, session.ErrSignupFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, recommend.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &serviceErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "recommendation service unavailable"})
	default:
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
