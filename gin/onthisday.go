package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch/errors"
	"github.com/MaxMLang/WikiWisch/sources/onthisday"
)

type OnThisDayHandler struct {
	Client *onthisday.Client
}

func (h *OnThisDayHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/onthisday", JSONFormatter(h.Today))
}

func (h *OnThisDayHandler) Today(c *gin.Context) (interface{}, error) {
	events, err := h.Client.FetchToday(c.Request.Context())
	if err != nil {
		return nil, errors.New("fetching today's events", errors.BadGateway(), errors.WithCause(err))
	}

	return events, nil
}
