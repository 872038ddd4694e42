package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-portal/internal/middleware"
	"github.com/noah-isme/sma-portal/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, _ := middleware.Claims(c)
	return claims
}
