package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/authflow"
	"taskmanager/dto"
	"taskmanager/session"
)

func SignInController(router *gin.Engine, provider session.Authenticator, logger *zap.Logger) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, provider, logger)
	})
}

func Signin(c *gin.Context, provider session.Authenticator, logger *zap.Logger) {
	var request dto.AuthRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid input"})
		return
	}

	flow := authflow.New(provider, &session.Holder{})
	s, err := flow.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		respondAuthError(c, logger, "signin", "Login failed: ", err)
		return
	}

	c.JSON(http.StatusOK, authResponse("Login Successfully", flow, s))
}

func authResponse(message string, flow *authflow.Flow, s session.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Message: message,
		Next:    string(flow.Nav.Current()),
		Token: dto.TokenResponse{
			AccessToken: s.AccessToken,
			ExpiresAt:   s.ExpiresAt,
		},
		UserID: s.UserID,
	}
}

// respondAuthError shows the provider's message as is, behind prefix.
func respondAuthError(c *gin.Context, logger *zap.Logger, op, prefix string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, authflow.ErrMissingFields):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, session.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrAccountDisabled):
		status = http.StatusUnauthorized
	default:
		logger.Error("auth provider failed", zap.String("operation", op), zap.Error(err))
	}
	c.JSON(status, dto.ErrorResponse{Error: prefix + err.Error()})
}
