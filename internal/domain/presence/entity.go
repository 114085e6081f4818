package presence

import "time"

type EventType string

const (
	EventCheckin  EventType = "checkin"
	EventCheckout EventType = "checkout"
)

// Source identifies how the event entered the system.
type Source string

const (
	SourceManual          Source = "manual"
	SourceRFID            Source = "rfid"
	SourceFaceRecognition Source = "face_recognition"
	SourceFingerprint     Source = "fingerprint"
)

// DeviceSourceFromCode maps the numeric device type carried on the ingest
// payload to a Source. Unknown codes return false.
func DeviceSourceFromCode(code int) (Source, bool) {
	switch code {
	case 1:
		return SourceRFID, true
	case 2:
		return SourceFaceRecognition, true
	case 3:
		return SourceFingerprint, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPresent    Status = "present"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
)

// Presence is a single attendance event. PresenceDate is the calendar day
// the event belongs to; the (user, date, type) triple is unique.
type Presence struct {
	ID           string
	UserID       string
	Type         EventType
	Source       Source
	Status       Status
	PresenceTime time.Time
	PresenceDate time.Time
	Address      *string
	Latitude     *float64
	Longitude    *float64
	PhotoPath    *string
	Notes        *string
	IsValid      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join fields populated by list queries
	UserName  *string
	CompanyID *string
}
