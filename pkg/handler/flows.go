package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"betwallet_client/pkg/apierror"
	"betwallet_client/pkg/flow"
	"betwallet_client/pkg/service"
)

func (h *Handler) newFlow(kind flow.Kind) *flow.Flow {
	f := flow.New(kind, h.service, flow.Options{
		Clock:         h.opts.Clock,
		NavigateDelay: h.opts.NavigateDelay,
		Verifier:      h.service,
		Log:           h.log,
		OnNavigate: func(r flow.Receipt) {
			h.log.WithField("flow", r.FlowID).Debug("navigate back")
			h.flows.Remove(r.FlowID)
		},
	})
	h.flows.Add(f)
	return f
}

// ensureLookups reloads the network or platform list a kind's limits come from
// once the cached copy is stale.
func (h *Handler) ensureLookups(ctx context.Context, kind flow.Kind) {
	var (
		section string
		load    func(context.Context) error
		size    func(service.Snapshot) int
	)
	switch kind {
	case flow.KindDeposit, flow.KindWithdraw:
		section, load = service.SectionNetworks, h.service.RefreshNetworks
		size = func(s service.Snapshot) int { return len(s.Networks) }
	case flow.KindAutoRecharge:
		section, load = service.SectionAutoRechargeNetworks, h.service.RefreshAutoRechargeNetworks
		size = func(s service.Snapshot) int { return len(s.AutoRechargeNetworks) }
	case flow.KindBettingDeposit:
		section, load = service.SectionPlatforms, h.service.RefreshPlatforms
		size = func(s service.Snapshot) int { return len(s.Platforms) }
	default:
		return
	}
	if _, fresh := h.lookups.Get(section); fresh {
		return
	}
	if err := load(ctx); err != nil {
		h.log.Warnf("limits lookup for %s: %v", kind, err)
		return
	}
	h.lookups.Set(section, size(h.service.Snapshot()))
}

// PrepareFlow validates a form. The path names either a kind, which starts a new
// flow, or the id of a flow still in editing.
func (h *Handler) PrepareFlow(c *gin.Context) {
	var form flow.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	f, ok := h.flows.Get(c.Param("id"))
	if !ok {
		kind, known := flow.ParseKind(c.Param("id"))
		if !known {
			newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
			return
		}
		f = h.newFlow(kind)
	}

	ctx := c.Request.Context()
	h.ensureLookups(ctx, f.Kind())
	f.SetLimits(h.service.LimitsFor(f.Kind(), form.Network, form.Platform))

	if _, err := f.Prepare(form); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, flow.ErrNotEditing) {
			status = http.StatusConflict
		}
		c.AbortWithStatusJSON(status, gin.H{"message": err.Error(), "flow": f.View()})
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"flow": f.View(),
	})
}

func (h *Handler) GetFlow(c *gin.Context) {
	f, ok := h.flows.Get(c.Param("id"))
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"flow": f.View(),
	})
}

// CancelFlow closes the confirmation. A flow that has nothing to confirm is
// discarded instead.
func (h *Handler) CancelFlow(c *gin.Context) {
	id := c.Param("id")
	f, ok := h.flows.Get(id)
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
		return
	}
	switch err := f.Cancel(); {
	case err == nil:
		wrapOkJSON(c, map[string]interface{}{
			"flow": f.View(),
		})
	case errors.Is(err, flow.ErrNotConfirming):
		h.flows.Remove(id)
		wrapOkJSON(c, map[string]interface{}{
			"removed": true,
		})
	default:
		errorResponse(c, err)
	}
}

func (h *Handler) ConfirmFlow(c *gin.Context) {
	f, ok := h.flows.Get(c.Param("id"))
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
		return
	}
	receipt, err := f.Confirm(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"receipt": receipt,
		"flow":    f.View(),
	})
}

// FlowSettlement waits for a submitted operation to reach a terminal status. When
// the wait times out the answer is 202 with outcome "submitted".
func (h *Handler) FlowSettlement(c *gin.Context) {
	f, ok := h.flows.Get(c.Param("id"))
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
		return
	}
	receipt := f.View().Receipt
	if receipt == nil {
		newErrorResponse(c, http.StatusConflict, "Nothing has been submitted yet.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.SettlementTimeout)
	defer cancel()
	settlement, err := flow.AwaitSettlement(ctx, h.opts.Clock, h.opts.SettlementInterval, func(ctx context.Context) (flow.Status, error) {
		return h.service.SettlementStatus(ctx, f.Kind(), receipt.UID)
	})
	switch {
	case err == nil:
		wrapOkJSON(c, map[string]interface{}{
			"settlement": settlement,
		})
	case errors.Is(err, context.DeadlineExceeded) && settlement != nil:
		c.JSON(http.StatusAccepted, gin.H{"settlement": settlement})
	default:
		errorResponse(c, err)
	}
}

type verifyInput struct {
	FlowID        string `json:"flow_id"`
	Kind          string `json:"kind"`
	Platform      string `json:"platform" binding:"required"`
	BettingUserID string `json:"betting_user_id" binding:"required"`
}

// VerifyBettingUser checks the betting account for a flow, starting a new betting
// flow when no flow_id is given.
func (h *Handler) VerifyBettingUser(c *gin.Context) {
	var input verifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "platform and betting_user_id are required")
		return
	}

	var f *flow.Flow
	if input.FlowID != "" {
		existing, ok := h.flows.Get(input.FlowID)
		if !ok {
			newErrorResponse(c, http.StatusNotFound, "Unknown flow.")
			return
		}
		f = existing
	} else {
		kind := flow.KindBettingDeposit
		if input.Kind != "" {
			parsed, ok := flow.ParseKind(input.Kind)
			if !ok || !parsed.Betting() {
				newErrorResponse(c, http.StatusBadRequest, "kind must be a betting operation")
				return
			}
			kind = parsed
		}
		f = h.newFlow(kind)
	}

	verified, err := f.Verify(c.Request.Context(), input.Platform, input.BettingUserID)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), gin.H{"message": err.Error(), "flow": f.View()})
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"flow": f.View(),
		"user": verified.User,
	})
}

func statusFor(err error) int {
	if errors.Is(err, flow.ErrNotEditing) {
		return http.StatusConflict
	}
	kind := apierror.KindOf(err)
	if kind == "" {
		return http.StatusBadRequest
	}
	return statusForKind(err, kind)
}
