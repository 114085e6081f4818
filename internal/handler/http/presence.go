package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PresenceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	CompanyHistory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	DeviceIngest(w http.ResponseWriter, r *http.Request)
}

type presenceHandlerImpl struct {
	presenceService presence.PresenceService
}

func NewPresenceHandler(presenceService presence.PresenceService) PresenceHandler {
	return &presenceHandlerImpl{
		presenceService: presenceService,
	}
}

// parseEventForm reads either a plain JSON body or a multipart form with a
// JSON 'data' field and an optional 'photo' file.
func parseEventForm(r *http.Request, dst interface{}) (*presence.Photo, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, err
	}

	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
			return nil, err
		}
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}

	return &presence.Photo{Reader: file, Filename: fileHeader.Filename}, nil
}

// CheckIn implements PresenceHandler.
func (h *presenceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req presence.CheckInRequest
	photo, err := parseEventForm(r, &req)
	if err != nil {
		slog.Error("Failed to parse check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.presenceService.CheckIn(r.Context(), principal, req, photo)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements PresenceHandler.
func (h *presenceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req presence.CheckOutRequest
	photo, err := parseEventForm(r, &req)
	if err != nil {
		slog.Error("Failed to parse check-out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.presenceService.CheckOut(r.Context(), principal, req, photo)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked out successfully", result)
}

// Status implements PresenceHandler.
func (h *presenceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.presenceService.Status(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements PresenceHandler.
func (h *presenceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.presenceService.Today(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parsePresenceFilter(r *http.Request) presence.ListFilter {
	q := r.URL.Query()

	filter := presence.ListFilter{
		Type:   presence.EventType(q.Get("type")),
		Status: presence.Status(q.Get("status")),
		UserID: q.Get("user_id"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if v := q.Get("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateFrom = &t
		}
	}
	if v := q.Get("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateTo = &t
		}
	}

	return filter
}

// History implements PresenceHandler.
func (h *presenceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := parsePresenceFilter(r)
	records, total, err := h.presenceService.History(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter.Normalize()
	response.SuccessWithMeta(w, records, response.NewMeta(filter.Page, filter.Limit, total))
}

// CompanyHistory implements PresenceHandler.
func (h *presenceHandlerImpl) CompanyHistory(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := parsePresenceFilter(r)
	records, total, err := h.presenceService.CompanyHistory(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter.Normalize()
	response.SuccessWithMeta(w, records, response.NewMeta(filter.Page, filter.Limit, total))
}

// List implements PresenceHandler. Admin listing across the caller's scope,
// with an optional company_id filter for super admins.
func (h *presenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := parsePresenceFilter(r)
	filter.CompanyID = r.URL.Query().Get("company_id")

	records, total, err := h.presenceService.CompanyHistory(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter.Normalize()
	response.SuccessWithMeta(w, records, response.NewMeta(filter.Page, filter.Limit, total))
}

// Get implements PresenceHandler.
func (h *presenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.presenceService.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements PresenceHandler.
func (h *presenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.presenceService.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presence record deleted", nil)
}

// DeviceIngest implements PresenceHandler. Public endpoint for hardware
// devices; identity is resolved from the payload, not from a session.
func (h *presenceHandlerImpl) DeviceIngest(w http.ResponseWriter, r *http.Request) {
	var req presence.DeviceIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	at := time.Now()
	if req.Timestamp != nil {
		if parsed, err := time.Parse(time.RFC3339, *req.Timestamp); err == nil {
			at = parsed
		}
	}

	result, err := h.presenceService.DeviceIngest(r.Context(), req, at)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Presence recorded", result)
}
