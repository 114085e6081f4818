package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nova-Gear/presence-api/internal/domain/manualrequest"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ManualRequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type manualRequestHandlerImpl struct {
	requestService manualrequest.RequestService
}

func NewManualRequestHandler(requestService manualrequest.RequestService) ManualRequestHandler {
	return &manualRequestHandlerImpl{
		requestService: requestService,
	}
}

// Submit implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req manualrequest.SubmitRequest
	var attachment *manualrequest.Attachment

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// Parse multipart form (max 10MB)
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		if dataJSON := r.FormValue("data"); dataJSON != "" {
			if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
				response.BadRequest(w, "Invalid request format", nil)
				return
			}
		}
		if file, fileHeader, err := r.FormFile("attachment"); err == nil {
			defer file.Close()
			attachment = &manualrequest.Attachment{Reader: file, Filename: fileHeader.Filename}
		} else if err != http.ErrMissingFile {
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.requestService.Submit(r.Context(), principal, req, attachment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual presence request submitted", result)
}

func parseRequestFilter(r *http.Request) manualrequest.ListFilter {
	q := r.URL.Query()

	filter := manualrequest.ListFilter{
		Status: manualrequest.RequestStatus(q.Get("status")),
		Type:   manualrequest.RequestType(q.Get("type")),
		UserID: q.Get("user_id"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter
}

// MyRequests implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := parseRequestFilter(r)
	requests, total, err := h.requestService.MyRequests(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter.Normalize()
	response.SuccessWithMeta(w, requests, response.NewMeta(filter.Page, filter.Limit, total))
}

// List implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := parseRequestFilter(r)
	filter.CompanyID = r.URL.Query().Get("company_id")

	requests, total, err := h.requestService.List(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter.Normalize()
	response.SuccessWithMeta(w, requests, response.NewMeta(filter.Page, filter.Limit, total))
}

// Get implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req manualrequest.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.requestService.Update(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual presence request updated", result)
}

// Withdraw implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.requestService.Withdraw(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual presence request withdrawn", nil)
}

// Approve implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestService.Approve, "Manual presence request approved")
}

// Reject implements ManualRequestHandler.
func (h *manualRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestService.Reject, "Manual presence request rejected")
}

func (h *manualRequestHandlerImpl) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, principal user.Principal, id string, req manualrequest.DecisionRequest) (manualrequest.RequestResponse, error),
	message string,
) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req manualrequest.DecisionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := fn(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
