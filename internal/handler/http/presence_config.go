package http

import (
	"encoding/json"
	"net/http"

	"github.com/Nova-Gear/presence-api/internal/domain/presenceconfig"
	"github.com/Nova-Gear/presence-api/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PresenceConfigHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type presenceConfigHandlerImpl struct {
	configService presenceconfig.ConfigService
}

func NewPresenceConfigHandler(configService presenceconfig.ConfigService) PresenceConfigHandler {
	return &presenceConfigHandlerImpl{
		configService: configService,
	}
}

// Create implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req presenceconfig.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.configService.Create(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Presence configuration created", result)
}

// Update implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req presenceconfig.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.configService.Update(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presence configuration updated", result)
}

// Get implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.configService.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetActive implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.configService.GetActive(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.configService.List(r.Context(), principal, r.URL.Query().Get("company_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements PresenceConfigHandler.
func (h *presenceConfigHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.configService.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presence configuration deleted", nil)
}
