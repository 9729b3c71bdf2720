// Package httpapi exposes the relay over HTTP: verification endpoints that
// run only the local precondition ladder, execution endpoints that submit
// relay transactions, and a quote endpoint for pricing bridge sends.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oftbridge/relay/relay"
)

// RelayAPI is the subset of the relay the HTTP layer drives. *relay.Relay
// satisfies it.
type RelayAPI interface {
	Address() string

	VerifyValidatePermit(ctx context.Context, req relay.ValidateRequest) (*relay.VerifyResult, error)
	VerifyTransfer(ctx context.Context, req relay.TransferRequest) (*relay.VerifyResult, error)
	VerifyBridge(ctx context.Context, req relay.BridgeRequest) (*relay.VerifyResult, error)
	VerifyGaslessBridge(ctx context.Context, req relay.GaslessBridgeRequest) (*relay.VerifyResult, error)

	ValidatePermit(ctx context.Context, req relay.ValidateRequest) (*relay.ValidateResult, error)
	ValidateAndTransfer(ctx context.Context, req relay.TransferRequest) (*relay.TransferResult, error)
	ReceiveWithPermit(ctx context.Context, req relay.TransferRequest) (*relay.TransferResult, error)
	ReceiveAndBridge(ctx context.Context, req relay.BridgeRequest) (*relay.BridgeResult, error)
	ReceiveAndBridgeGasless(ctx context.Context, req relay.GaslessBridgeRequest) (*relay.BridgeResult, error)
	Quote(ctx context.Context, req relay.QuoteRequest) (*relay.QuoteResult, error)
}

// Server wires the relay into a gin router.
type Server struct {
	relay  RelayAPI
	logger *zap.Logger
	engine *gin.Engine
}

// NewServer builds the router. A nil logger disables logging.
func NewServer(api RelayAPI, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{relay: api, logger: logger, engine: engine}
	s.routes()
	return s
}

// Handler returns the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("relay api listening", zap.String("addr", addr), zap.String("relay", s.relay.Address()))
	return s.engine.Run(addr)
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/quote", s.handleQuote)

	verify := s.engine.Group("/verify")
	verify.POST("/permit", s.handleVerifyPermit)
	verify.POST("/transfer", s.handleVerifyTransfer)
	verify.POST("/bridge", s.handleVerifyBridge)
	verify.POST("/bridge/gasless", s.handleVerifyGaslessBridge)

	s.engine.POST("/validate", s.handleValidate)
	s.engine.POST("/transfer", s.handleTransfer)
	s.engine.POST("/receive", s.handleReceive)
	s.engine.POST("/bridge", s.handleBridge)
	s.engine.POST("/bridge/gasless", s.handleGaslessBridge)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"relay":  s.relay.Address(),
	})
}

func (s *Server) handleQuote(c *gin.Context) {
	var req relay.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.Quote(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "quote", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nativeFee": result.NativeFee.String()})
}

func (s *Server) handleVerifyPermit(c *gin.Context) {
	var req relay.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respondVerify(c, "verify_permit")(s.relay.VerifyValidatePermit(c.Request.Context(), req))
}

func (s *Server) handleVerifyTransfer(c *gin.Context) {
	var req relay.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respondVerify(c, "verify_transfer")(s.relay.VerifyTransfer(c.Request.Context(), req))
}

func (s *Server) handleVerifyBridge(c *gin.Context) {
	var req relay.BridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respondVerify(c, "verify_bridge")(s.relay.VerifyBridge(c.Request.Context(), req))
}

func (s *Server) handleVerifyGaslessBridge(c *gin.Context) {
	var req relay.GaslessBridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respondVerify(c, "verify_bridge_gasless")(s.relay.VerifyGaslessBridge(c.Request.Context(), req))
}

func (s *Server) handleValidate(c *gin.Context) {
	var req relay.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.ValidatePermit(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "validate", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTransfer(c *gin.Context) {
	var req relay.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.ValidateAndTransfer(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "transfer", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleReceive(c *gin.Context) {
	var req relay.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.ReceiveWithPermit(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "receive", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBridge(c *gin.Context) {
	var req relay.BridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.ReceiveAndBridge(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "bridge", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGaslessBridge(c *gin.Context) {
	var req relay.GaslessBridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.relay.ReceiveAndBridgeGasless(c.Request.Context(), req)
	if err != nil {
		s.operationError(c, "bridge_gasless", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondVerify converts a verify outcome into the invalid-but-200 response
// shape: verification rejections are results, not transport errors.
func (s *Server) respondVerify(c *gin.Context, op string) func(*relay.VerifyResult, error) {
	return func(result *relay.VerifyResult, err error) {
		if err == nil {
			c.JSON(http.StatusOK, result)
			return
		}
		var verr *relay.VerifyError
		if errors.As(err, &verr) {
			s.logger.Info("verification rejected",
				zap.String("requestId", requestID(c)),
				zap.String("op", op),
				zap.String("reason", verr.Reason),
				zap.String("owner", verr.Owner))
			c.JSON(http.StatusOK, gin.H{
				"valid":  false,
				"reason": verr.Reason,
				"owner":  verr.Owner,
			})
			return
		}
		s.internalError(c, op, err)
	}
}

func (s *Server) operationError(c *gin.Context, op string, err error) {
	var verr *relay.VerifyError
	if errors.As(err, &verr) {
		s.logger.Info("request rejected",
			zap.String("requestId", requestID(c)),
			zap.String("op", op),
			zap.String("reason", verr.Reason))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verr.Message,
			"reason": verr.Reason,
			"owner":  verr.Owner,
		})
		return
	}

	var xerr *relay.ExecuteError
	if errors.As(err, &xerr) {
		s.logger.Error("execution failed",
			zap.String("requestId", requestID(c)),
			zap.String("op", op),
			zap.String("reason", xerr.Reason),
			zap.String("transaction", xerr.Transaction))
		status := http.StatusBadGateway
		if isLocalReason(xerr.Reason) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":       xerr.Message,
			"reason":      xerr.Reason,
			"owner":       xerr.Owner,
			"transaction": xerr.Transaction,
		})
		return
	}

	s.internalError(c, op, err)
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	s.logger.Error("request failed",
		zap.String("requestId", requestID(c)),
		zap.String("op", op),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "invalid request body: " + err.Error(),
		"reason": relay.ErrInvalidPayload,
	})
}

// isLocalReason reports whether a reason code denotes a local precondition
// failure rather than a chain-side rejection.
func isLocalReason(reason string) bool {
	switch reason {
	case relay.ErrInvalidPayload,
		relay.ErrInvalidRecipient,
		relay.ErrRecipientIsRelay,
		relay.ErrInvalidAmount,
		relay.ErrAmountExceedsPermit,
		relay.ErrInvalidToken,
		relay.ErrSpenderMismatch,
		relay.ErrInvalidDestination,
		relay.ErrInvalidFee,
		relay.ErrInvalidSignatureFormat,
		relay.ErrWithdrawDenied,
		relay.ErrInvalidSignature,
		relay.ErrSigDeadlineExpired,
		relay.ErrPermitExpired,
		relay.ErrInsufficientBalance:
		return true
	}
	return false
}

func requestID(c *gin.Context) string {
	if id := c.GetString("requestId"); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Set("requestId", id)
	return id
}
