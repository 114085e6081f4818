package presenceconfig

import (
	"time"

	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

type CreateConfigRequest struct {
	// CompanyID is only honored for super admins; company admins are pinned
	// to their own company.
	CompanyID     string `json:"company_id"`
	CheckinStart  string `json:"checkin_start"`
	CheckinEnd    string `json:"checkin_end"`
	CheckoutStart string `json:"checkout_start"`
	CheckoutEnd   string `json:"checkout_end"`
	IsActive      bool   `json:"is_active"`
}

func (r CreateConfigRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	for _, f := range []struct {
		name  string
		value string
	}{
		{"checkin_start", r.CheckinStart},
		{"checkin_end", r.CheckinEnd},
		{"checkout_start", r.CheckoutStart},
		{"checkout_end", r.CheckoutEnd},
	} {
		if validator.IsEmpty(f.value) {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: f.name + " is required"})
		} else if !validator.IsValidTimeOfDay(f.value) {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: f.name + " must be in HH:MM format"})
		}
	}

	return errs
}

type UpdateConfigRequest struct {
	CheckinStart  *string `json:"checkin_start,omitempty"`
	CheckinEnd    *string `json:"checkin_end,omitempty"`
	CheckoutStart *string `json:"checkout_start,omitempty"`
	CheckoutEnd   *string `json:"checkout_end,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r UpdateConfigRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"checkin_start", r.CheckinStart},
		{"checkin_end", r.CheckinEnd},
		{"checkout_start", r.CheckoutStart},
		{"checkout_end", r.CheckoutEnd},
	} {
		if f.value != nil && !validator.IsValidTimeOfDay(*f.value) {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: f.name + " must be in HH:MM format"})
		}
	}

	return errs
}

type ConfigResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	CompanyName   *string   `json:"company_name,omitempty"`
	CheckinStart  string    `json:"checkin_start"`
	CheckinEnd    string    `json:"checkin_end"`
	CheckoutStart string    `json:"checkout_start"`
	CheckoutEnd   string    `json:"checkout_end"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToConfigResponse(c Config) ConfigResponse {
	return ConfigResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		CompanyName:   c.CompanyName,
		CheckinStart:  c.CheckinStart.String(),
		CheckinEnd:    c.CheckinEnd.String(),
		CheckoutStart: c.CheckoutStart.String(),
		CheckoutEnd:   c.CheckoutEnd.String(),
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func ToConfigResponses(configs []Config) []ConfigResponse {
	out := make([]ConfigResponse, len(configs))
	for i, c := range configs {
		out[i] = ToConfigResponse(c)
	}
	return out
}
