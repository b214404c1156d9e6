package middleware

import (
	"strings"

	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ContextUserID = "user_id"

// AuthRequired vérifie le bearer token et place user_id dans le contexte gin
func AuthRequired(secret []byte, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortAuth(c, "Token manquant")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortAuth(c, "Format Authorization invalide")
			return
		}

		userID, err := utils.ParseJWT(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			log.WithError(err).Debug("❌ Token refusé")
			abortAuth(c, "Token invalide")
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func abortAuth(c *gin.Context, msg string) {
	_ = c.Error(utils.NewAuthError(msg))
	c.Abort()
}
