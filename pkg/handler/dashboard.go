package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"betwallet_client/pkg/repository"
	"betwallet_client/pkg/service"
)

func (h *Handler) Dashboard(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"data": h.service.Snapshot(),
	})
}

func (h *Handler) RefreshDashboard(c *gin.Context) {
	report := h.service.RefreshAll(c.Request.Context())
	wrapOkJSON(c, map[string]interface{}{
		"data":   h.service.Snapshot(),
		"report": report,
	})
}

func (h *Handler) Networks(c *gin.Context) {
	if err := h.service.RefreshNetworks(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	networks := h.service.Snapshot().Networks
	h.lookups.Set(service.SectionNetworks, len(networks))
	wrapOkJSON(c, map[string]interface{}{
		"data": networks,
	})
}

func (h *Handler) Platforms(c *gin.Context) {
	if err := h.service.RefreshPlatforms(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	platforms := h.service.Snapshot().Platforms
	h.lookups.Set(service.SectionPlatforms, len(platforms))
	wrapOkJSON(c, map[string]interface{}{
		"data": platforms,
	})
}

func (h *Handler) Commissions(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.RefreshCommissions(ctx); err != nil {
		errorResponse(c, err)
		return
	}
	rates, err := h.api.Commissions.CurrentRates(ctx)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"stats": h.service.Snapshot().Commissions,
		"rates": rates,
	})
}

func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.api.Transfers.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": users,
	})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := repository.LoadPreferences(c.Request.Context(), h.store)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": prefs,
	})
}

func (h *Handler) PutPreferences(c *gin.Context) {
	var input repository.Preferences
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := c.Request.Context()
	if err := repository.SavePreferences(ctx, h.store, input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	prefs, err := repository.LoadPreferences(ctx, h.store)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": prefs,
	})
}
