package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch/errors"
)

type HandlerFunc func(*gin.Context) (interface{}, error)

// JSONFormatter renders a handler's result under "data", or its error with
// the code the error carries.
func JSONFormatter(next HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := next(c)
		if err != nil {
			c.JSON(errors.Code(err), map[string]interface{}{
				"message": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, map[string]interface{}{
			"data": res,
		})
	}
}

// CORS opens the API to the browser app, which may be served from another
// origin during development.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept-Language, Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
