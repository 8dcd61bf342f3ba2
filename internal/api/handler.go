package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/settleup-app/settleup-server/internal/models"
	"github.com/settleup-app/settleup-server/internal/service"
	"github.com/settleup-app/settleup-server/internal/utils"
)

// Handler holds the HTTP handlers for the API
type Handler struct {
	svc       service.Service
	logger    *utils.Logger
	jwtSecret []byte
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, logger *utils.Logger, jwtSecret []byte) *Handler {
	return &Handler{
		svc:       svc,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// SetupRoutes registers all routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	protected := api.Group("")
	protected.Use(AuthMiddleware(h.jwtSecret))

	protected.GET("/users/me", h.GetCurrentUser)
	protected.GET("/users/search", h.SearchUsers)

	protected.GET("/friends", h.ListFriends)
	protected.POST("/friends", h.AddFriend)
	protected.DELETE("/friends/:id", h.RemoveFriend)

	protected.POST("/transactions", h.CreateTransaction)
	protected.GET("/transactions", h.ListTransactions)
	protected.GET("/transactions/:id", h.GetTransaction)
	protected.PUT("/transactions/:id", h.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.DeleteTransaction)
	protected.POST("/transactions/:id/settle", h.SettleTransaction)

	protected.GET("/balances", h.GetBalances)
	protected.GET("/statistics", h.GetStatistics)

	protected.POST("/splits", h.SplitBill)
}

// currentUserID returns the authenticated user's ID set by the middleware.
func currentUserID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}

// respondError maps service errors to HTTP responses. Unexpected errors
// are logged and surfaced as a generic failure.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_ERROR",
			Message: verr.Message,
		})
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "EMAIL_EXISTS",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: "The requested resource was not found",
		})
	default:
		h.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "An internal error occurred",
		})
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	})
}

// Auth handlers
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// User handlers
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{Status: "success", User: user})
}

func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.svc.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UsersResponse{Status: "success", Users: users})
}

// Friend handlers
func (h *Handler) ListFriends(c *gin.Context) {
	friends, err := h.svc.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UsersResponse{Status: "success", Users: friends})
}

func (h *Handler) AddFriend(c *gin.Context) {
	var req models.AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.svc.AddFriend(c.Request.Context(), currentUserID(c), req.FriendID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Friend added"})
}

func (h *Handler) RemoveFriend(c *gin.Context) {
	if err := h.svc.RemoveFriend(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Friend removed"})
}

// Transaction handlers
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	txn, err := h.svc.CreateTransaction(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.TransactionResponse{Status: "success", Transaction: txn})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	txns, err := h.svc.GetUserTransactions(c.Request.Context(), currentUserID(c), c.Query("counterparty"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{Status: "success", Transactions: txns})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	txn, err := h.svc.GetTransaction(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionResponse{Status: "success", Transaction: txn})
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	txn, err := h.svc.UpdateTransaction(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionResponse{Status: "success", Transaction: txn})
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	if err := h.svc.DeleteTransaction(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Transaction deleted"})
}

func (h *Handler) SettleTransaction(c *gin.Context) {
	txn, err := h.svc.SettleTransaction(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionResponse{Status: "success", Transaction: txn})
}

// Balance and statistics handlers
func (h *Handler) GetBalances(c *gin.Context) {
	balances, err := h.svc.ComputeBalances(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BalancesResponse{Status: "success", Balances: balances})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.svc.ComputeStatistics(c.Request.Context(), currentUserID(c), c.Query("range"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatisticsResponse{Status: "success", Statistics: stats})
}

// Split handlers
func (h *Handler) SplitBill(c *gin.Context) {
	var req models.SplitBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	txns, err := h.svc.SplitBill(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.TransactionsResponse{Status: "success", Transactions: txns})
}
