package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	tokens        *auth.TokenIssuer
	auth          *service.AuthService
	catalog       *service.CatalogService
	orders        *service.OrderService
	notifications *service.NotificationService
	stats         *service.StatsService
	delivery      *service.DeliveryService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tokens *auth.TokenIssuer,
	authService *service.AuthService,
	catalog *service.CatalogService,
	orders *service.OrderService,
	notifications *service.NotificationService,
	stats *service.StatsService,
	delivery *service.DeliveryService,
) *Handler {
	return &Handler{
		tokens:        tokens,
		auth:          authService,
		catalog:       catalog,
		orders:        orders,
		notifications: notifications,
		stats:         stats,
		delivery:      delivery,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Customer-facing, unauthenticated
	router.POST("/merchant/register", h.register)
	router.POST("/merchant/login", h.login)
	router.GET("/order/:link", h.getProductByOrderLink)
	router.POST("/orders", h.submitOrder)
	router.GET("/delivery-companies", h.listDeliveryCompanies)

	// Merchant-facing, token required
	authed := router.Group("/", authRequired(h.tokens))
	{
		authed.GET("/merchants/:id", h.getMerchant)
		authed.PATCH("/merchants/:id", h.updateMerchantProfile)
		authed.PATCH("/merchants/:id/password", h.changePassword)
		authed.GET("/merchants/:id/products", h.listProducts)
		authed.POST("/merchants/:id/products", h.createProduct)
		authed.PATCH("/merchants/:id/products/:productId", h.updateProduct)
		authed.GET("/merchants/:id/orders", h.listOrders)
		authed.PATCH("/orders/:id", h.updateOrderStatus)
		authed.GET("/merchants/:id/notifications", h.listNotifications)
		authed.PATCH("/notifications/:id/read", h.markNotificationRead)
		authed.PATCH("/merchants/:id/notifications/read-all", h.markAllNotificationsRead)
		authed.GET("/merchants/:id/stats", h.merchantStats)
		authed.GET("/merchants/:id/delivery-links", h.listDeliveryLinks)
		authed.POST("/merchants/:id/delivery-links", h.selectDeliveryCompany)
	}
}

// statusForKind maps error kinds to HTTP statuses per the error taxonomy
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindWeakPassword, apperr.KindInvalidStatus, apperr.KindDuplicateEmail:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateOrderLink:
		return http.StatusConflict
	case apperr.KindUnauthenticated, apperr.KindInvalidCredential:
		return http.StatusUnauthorized
	case apperr.KindInvalidToken, apperr.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError renders an error response carrying the kind and a caller-safe
// message. Internal detail never leaves the process.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.JSON(statusForKind(kind), gin.H{
		"error": apperr.MessageOf(err),
		"kind":  kind,
	})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be a positive integer",
			"kind":  apperr.KindInvalidInput,
		})
		return 0, false
	}
	return id, true
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// register handles merchant registration
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), &req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account created"})
}

// login handles merchant login
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// getMerchant returns the authenticated merchant's account record
func (h *Handler) getMerchant(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	merchant, err := h.auth.Profile(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchant)
}

// updateMerchantProfile handles merchant profile edits
func (h *Handler) updateMerchantProfile(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	merchant, err := h.auth.UpdateProfile(c.Request.Context(), merchantID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchant)
}

// changePassword handles merchant password change
func (h *Handler) changePassword(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), merchantID, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password updated"})
}

// createProduct handles product listing with order-link assignment
func (h *Handler) createProduct(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}
	req.MerchantID = merchantID

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"product":   product,
		"order_url": "/order/" + product.OrderLink,
	})
}

// listProducts lists a merchant's products
func (h *Handler) listProducts(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	products, err := h.catalog.ListMerchantProducts(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// updateProduct handles merchant-scoped product mutation
func (h *Handler) updateProduct(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), merchantID, productID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// getProductByOrderLink serves the public order page lookup
func (h *Handler) getProductByOrderLink(c *gin.Context) {
	product, err := h.catalog.FindProductByOrderLink(c.Request.Context(), c.Param("link"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// submitOrder handles customer order submission
func (h *Handler) submitOrder(c *gin.Context) {
	var req service.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	order, err := h.orders.SubmitOrder(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// updateOrderStatus handles merchant order status transitions
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.KindInvalidInput, "invalid request body"))
		return
	}

	claims := principalFrom(c)
	order, err := h.orders.UpdateStatus(c.Request.Context(), claims.MerchantID, orderID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// listOrders lists a merchant's orders
func (h *Handler) listOrders(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	orders, err := h.orders.ListMerchantOrders(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// listNotifications lists a merchant's notification feed
func (h *Handler) listNotifications(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	notifications, err := h.notifications.ListForMerchant(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// markNotificationRead flips one notification to read
func (h *Handler) markNotificationRead(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	claims := principalFrom(c)
	notification, err := h.notifications.MarkRead(c.Request.Context(), claims.MerchantID, notificationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// markAllNotificationsRead flips a merchant's whole feed to read
func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// merchantStats returns the aggregate sales figures
func (h *Handler) merchantStats(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	stats, err := h.stats.ComputeStats(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// listDeliveryCompanies returns the delivery-company catalog
func (h *Handler) listDeliveryCompanies(c *gin.Context) {
	companies, err := h.delivery.ListCompanies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

// listDeliveryLinks lists a merchant's delivery-company selections
func (h *Handler) listDeliveryLinks(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	links, err := h.delivery.ListMerchantLinks(c.Request.Context(), merchantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// selectDeliveryCompany records a merchant's delivery-company choice
func (h *Handler) selectDeliveryCompany(c *gin.Context) {
	merchantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireOwner(c, merchantID) {
		return
	}

	var req struct {
		CompanyID int64 `json:"companyId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CompanyID <= 0 {
		writeError(c, apperr.New(apperr.KindInvalidInput, "companyId must be a positive integer"))
		return
	}

	if err := h.delivery.SelectCompany(c.Request.Context(), merchantID, req.CompanyID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
