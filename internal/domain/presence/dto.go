package presence

import (
	"time"

	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

type CheckInRequest struct {
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r CheckInRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}

	return errs
}

type CheckOutRequest struct {
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r CheckOutRequest) Validate() validator.ValidationErrors {
	return CheckInRequest(r).Validate()
}

// DeviceIngestRequest is the unauthenticated payload posted by hardware
// devices. Type is the numeric device class (1=rfid, 2=face_recognition,
// 3=fingerprint) and Identifier is the device-scoped user credential (card
// UID, face template id, finger template id).
type DeviceIngestRequest struct {
	Type       int     `json:"type"`
	Identifier string  `json:"identifier"`
	Token      *string `json:"token,omitempty"`
	Timestamp  *string `json:"timestamp,omitempty"`
}

func (r DeviceIngestRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if _, ok := DeviceSourceFromCode(r.Type); !ok {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be 1 (rfid), 2 (face_recognition) or 3 (fingerprint)"})
	}
	if validator.IsEmpty(r.Identifier) && (r.Token == nil || validator.IsEmpty(*r.Token)) {
		errs = append(errs, validator.ValidationError{Field: "identifier", Message: "identifier or token is required"})
	}

	return errs
}

// ListFilter narrows history and admin listing queries. Zero values mean
// "no constraint". Page is 1-based.
type ListFilter struct {
	UserID    string
	CompanyID string
	Type      EventType
	Status    Status
	DateFrom  *time.Time
	DateTo    *time.Time
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

type PresenceResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     *string   `json:"user_name,omitempty"`
	Type         EventType `json:"type"`
	Source       Source    `json:"source"`
	Status       Status    `json:"status"`
	PresenceTime time.Time `json:"presence_time"`
	PresenceDate string    `json:"presence_date"`
	Address      *string   `json:"address,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	IsValid      bool      `json:"is_valid"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToPresenceResponse(p Presence) PresenceResponse {
	return PresenceResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		UserName:     p.UserName,
		Type:         p.Type,
		Source:       p.Source,
		Status:       p.Status,
		PresenceTime: p.PresenceTime,
		PresenceDate: p.PresenceDate.Format("2006-01-02"),
		Address:      p.Address,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		PhotoURL:     p.PhotoPath,
		Notes:        p.Notes,
		IsValid:      p.IsValid,
		CreatedAt:    p.CreatedAt,
	}
}

func ToPresenceResponses(records []Presence) []PresenceResponse {
	out := make([]PresenceResponse, len(records))
	for i, p := range records {
		out[i] = ToPresenceResponse(p)
	}
	return out
}

// StatusResponse is the "where do I stand today" view: both events if they
// exist plus the action flags the mobile client renders its buttons from.
// TodayResponse is the thin "what happened today" view: the raw events plus
// one derived label ("not_checked_in", "present", "late", "early_leave").
type TodayResponse struct {
	Date     string            `json:"date"`
	Status   string            `json:"status"`
	Checkin  *PresenceResponse `json:"checkin,omitempty"`
	Checkout *PresenceResponse `json:"checkout,omitempty"`
}

type StatusResponse struct {
	Date                string            `json:"date"`
	Checkin             *PresenceResponse `json:"checkin,omitempty"`
	Checkout            *PresenceResponse `json:"checkout,omitempty"`
	CanCheckIn          bool              `json:"can_check_in"`
	CanCheckOut         bool              `json:"can_check_out"`
	WorkDurationMinutes *int              `json:"work_duration_minutes,omitempty"`
	CheckinWindow       *string           `json:"checkin_window,omitempty"`
	CheckoutWindow      *string           `json:"checkout_window,omitempty"`
}
