package manualrequest

import (
	"time"

	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

type SubmitRequest struct {
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    string  `json:"reason"`
	Notes     *string `json:"notes,omitempty"`
}

func (r SubmitRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type is required"})
	} else if !validator.IsInSlice(r.Type, ValidRequestTypes()) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: sick, leave, vacation, business_trip, other"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}

	return errs
}

// UpdateRequest edits a request while it is still pending. Nil fields keep
// their current value.
type UpdateRequest struct {
	Type      *string `json:"type,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

type DecisionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// ListFilter narrows request listings. Zero values mean "no constraint".
type ListFilter struct {
	UserID    string
	CompanyID string
	Status    RequestStatus
	Type      RequestType
	Page      int
	Limit     int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type RequestResponse struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	UserName       *string       `json:"user_name,omitempty"`
	Type           RequestType   `json:"type"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	Reason         string        `json:"reason"`
	AttachmentURL  *string       `json:"attachment_url,omitempty"`
	Status         RequestStatus `json:"status"`
	ApprovedBy     *string       `json:"approved_by,omitempty"`
	ApproverName   *string       `json:"approver_name,omitempty"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	ApprovalNotes  *string       `json:"approval_notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func ToRequestResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		Type:          r.Type,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		Reason:        r.Reason,
		AttachmentURL: r.AttachmentPath,
		Status:        r.Status,
		ApprovedBy:    r.ApprovedBy,
		ApproverName:  r.ApproverName,
		ApprovedAt:    r.ApprovedAt,
		ApprovalNotes: r.ApprovalNotes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToRequestResponses(requests []Request) []RequestResponse {
	out := make([]RequestResponse, len(requests))
	for i, r := range requests {
		out[i] = ToRequestResponse(r)
	}
	return out
}
