package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Respond writes err as a JSON body. Persistence and validation failures
// carry the underlying cause, if any, under "error".
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)

	var e *Error
	if !errors.As(err, &e) {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unclassified error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}

	body := gin.H{"message": e.Message}
	if (e.Kind == KindPersistence || e.Kind == KindValidation) && e.Err != nil {
		body["error"] = e.Err.Error()
	}
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(status, body)
}
