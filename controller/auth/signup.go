package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/authflow"
	"taskmanager/dto"
	"taskmanager/session"
)

func SignUpController(router *gin.Engine, provider session.Authenticator, logger *zap.Logger) {
	router.POST("/auth/signup", func(c *gin.Context) {
		Signup(c, provider, logger)
	})
}

func Signup(c *gin.Context, provider session.Authenticator, logger *zap.Logger) {
	var request dto.AuthRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid input"})
		return
	}

	flow := authflow.New(provider, &session.Holder{})
	s, err := flow.Signup(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		respondAuthError(c, logger, "signup", "Signup failed: ", err)
		return
	}

	c.JSON(http.StatusCreated, authResponse("Signup Successfully", flow, s))
}
