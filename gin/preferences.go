package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch/errors"
	"github.com/MaxMLang/WikiWisch/state"
)

type PreferencesHandler struct {
	Store *state.Store
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/preferences", JSONFormatter(h.Get))
	router.PUT("/api/preferences", JSONFormatter(h.Update))
	router.POST("/api/preferences/topics/:topic/toggle", JSONFormatter(h.ToggleTopic))
	router.POST("/api/tabs/:id/toggle", JSONFormatter(h.ToggleTab))
}

func (h *PreferencesHandler) Get(*gin.Context) (interface{}, error) {
	return h.Store.Preferences(), nil
}

// preferencesPayload carries a partial update: only the fields present in
// the request body are applied.
type preferencesPayload struct {
	Theme            *string   `json:"theme"`
	Topics           *[]string `json:"topics"`
	ArxivCategory    *string   `json:"arxivCategory"`
	PreprintCategory *string   `json:"preprintCategory"`
	TabOrder         *[]string `json:"tabOrder"`
}

func (h *PreferencesHandler) Update(c *gin.Context) (interface{}, error) {
	var payload preferencesPayload
	if err := c.BindJSON(&payload); err != nil {
		return nil, errors.New("invalid preferences payload", errors.BadRequest(), errors.WithCause(err))
	}

	if payload.Theme != nil {
		h.Store.SetTheme(*payload.Theme)
	}
	if payload.Topics != nil {
		h.Store.SetTopics(*payload.Topics)
	}
	if payload.ArxivCategory != nil {
		h.Store.SetArxivCategory(*payload.ArxivCategory)
	}
	if payload.PreprintCategory != nil {
		h.Store.SetPreprintCategory(*payload.PreprintCategory)
	}
	if payload.TabOrder != nil {
		h.Store.SetTabOrder(*payload.TabOrder)
	}

	return h.Store.Preferences(), nil
}

func (h *PreferencesHandler) ToggleTopic(c *gin.Context) (interface{}, error) {
	h.Store.ToggleTopic(c.Param("topic"))
	return h.Store.Preferences(), nil
}

func (h *PreferencesHandler) ToggleTab(c *gin.Context) (interface{}, error) {
	h.Store.ToggleTab(c.Param("id"))
	return h.Store.Preferences(), nil
}
