package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

type metadataDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

func (m metadataDTO) toDomain() domain.Metadata {
	return domain.Metadata{Name: m.Name, Description: m.Description, Link: m.Link}
}

type createRequest struct {
	metadataDTO
	Start   uint64 `json:"start"`
	End     uint64 `json:"end"`
	SoftCap uint64 `json:"soft_cap"`
	HardCap uint64 `json:"hard_cap"`
}

type createResponse struct {
	CampaignID uint32 `json:"campaign_id"`
}

type capsRequest struct {
	SoftCap uint64 `json:"soft_cap"`
	HardCap uint64 `json:"hard_cap"`
}

type contributeRequest struct {
	Amount uint64 `json:"amount"`
}

type amountResponse struct {
	Amount uint64 `json:"amount"`
}

type campaignResponse struct {
	CampaignID  uint32 `json:"campaign_id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	Start       uint64 `json:"start"`
	End         uint64 `json:"end"`
	SoftCap     uint64 `json:"soft_cap"`
	HardCap     uint64 `json:"hard_cap"`
	Matched     uint64 `json:"matched"`
	Status      string `json:"status"`
}

func campaignToResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		CampaignID:  uint32(c.ID),
		Owner:       string(c.Owner),
		Name:        c.Metadata.Name,
		Description: c.Metadata.Description,
		Link:        c.Metadata.Link,
		Start:       uint64(c.Start),
		End:         uint64(c.End),
		SoftCap:     uint64(c.SoftCap),
		HardCap:     uint64(c.HardCap),
		Matched:     uint64(c.Matched),
		Status:      string(c.Status),
	}
}

func (h *Handler) campaignID(w http.ResponseWriter, r *http.Request) (domain.CampaignID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid campaign id"})
		return 0, false
	}
	return domain.CampaignID(id), true
}

func (h *Handler) origin(w http.ResponseWriter, r *http.Request) (domain.Origin, bool) {
	origin, err := h.auth.Resolve(r)
	if err != nil {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return domain.Origin{}, false
	}
	return origin, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.CreateCampaign(r.Context(), origin, req.toDomain(),
		domain.Moment(req.Start), domain.Moment(req.End),
		domain.Amount(req.SoftCap), domain.Amount(req.HardCap))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, createResponse{CampaignID: uint32(id)})
}

func (h *Handler) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	var req metadataDTO
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateMetadata(r.Context(), origin, id, req.toDomain()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCaps(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	var req capsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.SetCaps(r.Context(), origin, id, domain.Amount(req.SoftCap), domain.Amount(req.HardCap)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	if err := h.svc.CancelCampaign(r.Context(), origin, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	var req contributeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.Contribute(r.Context(), origin, id, domain.Amount(req.Amount)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.origin(w, r)
	if !ok {
		return
	}
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	amount, err := h.svc.ClaimRefund(r.Context(), origin, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, amountResponse{Amount: uint64(amount)})
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Campaign(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaignToResponse(c))
}

func (h *Handler) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	account := chi.URLParam(r, "account")

	amount, err := h.svc.Contribution(r.Context(), id, domain.AccountID(account))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, amountResponse{Amount: uint64(amount)})
}
