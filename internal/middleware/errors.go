package middleware

import (
	"errors"
	"net/http"

	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse corps JSON de toutes les erreurs
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ErrorHandler transforme la dernière erreur attachée au contexte en réponse JSON
func ErrorHandler(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		resp := ErrorResponse{Error: "Erreur interne", Code: string(utils.KindInternal)}
		status := http.StatusInternalServerError

		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			resp.Code = string(appErr.Kind)
			resp.Retryable = appErr.Retryable
			status = utils.HTTPStatus(appErr.Kind)
			if appErr.Kind != utils.KindInternal {
				resp.Error = appErr.Message
			}
		}

		if status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.FullPath()).Error("❌ Erreur interne")
		}
		c.JSON(status, resp)
	}
}
