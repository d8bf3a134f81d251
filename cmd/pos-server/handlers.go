package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warungpos/warung-pos/internal/auth"
	"github.com/warungpos/warung-pos/internal/domain"
	"github.com/warungpos/warung-pos/internal/httpx"
	"github.com/warungpos/warung-pos/internal/outbox"
	"github.com/warungpos/warung-pos/internal/pos"
)

func newRouter(ds pos.DataSource, ob outbox.Outbox, au *auth.Service) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), httpx.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.POST("/auth/login", loginHandler(au))
	r.POST("/auth/logout", logoutHandler(au))
	r.GET("/auth/me", meHandler(au))

	r.GET("/products", listProductsHandler(ds))
	r.POST("/products", createProductHandler(ds))
	r.PUT("/products/:id", updateProductHandler(ds))
	r.DELETE("/products/:id", deleteProductHandler(ds))

	r.GET("/categories", listCategoriesHandler(ds))
	r.POST("/categories", createCategoryHandler(ds))

	r.GET("/vendors", listVendorsHandler(ds))
	r.POST("/vendors", createVendorHandler(ds))
	r.PUT("/vendors/:id", updateVendorHandler(ds))
	r.DELETE("/vendors/:id", deleteVendorHandler(ds))

	r.POST("/orders", createOrderHandler(ds))
	r.GET("/orders", listOrdersHandler(ds))

	r.GET("/reports/daily/:date", dailyReportHandler(ds))
	r.GET("/stats", statsHandler(ds))

	r.GET("/export", exportHandler(ds))
	r.POST("/import", importHandler(ds))

	r.GET("/sync/pending", pendingSyncHandler(ob))
	r.DELETE("/sync/pending", clearSyncHandler(ob))

	return r
}

// writeError maps service errors onto HTTP statuses. Persistence detail is
// never forwarded to the client.
func writeError(c *gin.Context, err error) {
	var verr *pos.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, pos.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, pos.ErrVendorInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "vendor still has active products"})
	case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, pos.ErrInvalidTotal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save"})
	}
}

// ===== auth =====

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func loginHandler(au *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		user, token, err := au.Login(req.Username, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

func logoutHandler(au *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		au.Logout()
		c.Status(http.StatusNoContent)
	}
}

func meHandler(au *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := au.User()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ===== products =====

type createProductRequest struct {
	Name        string             `json:"name"`
	Price       float64            `json:"price"`
	ImageURL    string             `json:"image_url"`
	Emoji       string             `json:"emoji"`
	ProductType domain.ProductType `json:"product_type"`
	VendorID    string             `json:"vendor_id"`
	CategoryID  string             `json:"category_id"`
}

func listProductsHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := ds.GetProducts(c.Request.Context(), c.Query("category_id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func createProductHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		p, err := ds.CreateProduct(c.Request.Context(), domain.Product{
			Name:        req.Name,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Emoji:       req.Emoji,
			ProductType: req.ProductType,
			VendorID:    req.VendorID,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch pos.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		p, err := ds.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ds.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// ===== categories =====

type createCategoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func listCategoriesHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := ds.GetCategories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func createCategoryHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		cat, err := ds.CreateCategory(c.Request.Context(), req.Name, req.SortOrder)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

// ===== vendors =====

type createVendorRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func listVendorsHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendors, err := ds.GetVendors(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, vendors)
	}
}

func createVendorHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createVendorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		v, err := ds.CreateVendor(c.Request.Context(), req.Name, req.Phone)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

func updateVendorHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch pos.VendorPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		v, err := ds.UpdateVendor(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func deleteVendorHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ds.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// ===== orders =====

type createOrderRequest struct {
	TotalAmount  float64           `json:"total_amount"`
	CashReceived float64           `json:"cash_received"`
	ChangeAmount float64           `json:"change_amount"`
	Items        []domain.CartItem `json:"items"`
}

func createOrderHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		order, err := ds.CreateOrder(c.Request.Context(),
			req.TotalAmount, req.CashReceived, req.ChangeAmount, req.Items)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			orders []domain.Order
			err    error
		)
		if date := c.Query("date"); date != "" {
			orders, err = ds.GetOrdersForDate(c.Request.Context(), date)
		} else {
			orders, err = ds.GetAllOrders(c.Request.Context())
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// ===== reports / stats =====

func dailyReportHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := ds.GetDailyReport(c.Request.Context(), c.Param("date"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func statsHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ds.GetStatistics(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ===== export / import =====

func exportHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := ds.Export(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func importHandler(ds pos.DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap domain.Snapshot
		if err := c.ShouldBindJSON(&snap); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := ds.Import(c.Request.Context(), &snap); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"imported": true})
	}
}

// ===== sync =====

func pendingSyncHandler(ob outbox.Outbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := ob.ListPending(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

func clearSyncHandler(ob outbox.Outbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ob.ClearPending(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
