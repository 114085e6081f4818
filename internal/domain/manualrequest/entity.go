package manualrequest

import "time"

type RequestType string

const (
	TypeSick         RequestType = "sick"
	TypeLeave        RequestType = "leave"
	TypeVacation     RequestType = "vacation"
	TypeBusinessTrip RequestType = "business_trip"
	TypeOther        RequestType = "other"
)

func ValidRequestTypes() []string {
	return []string{
		string(TypeSick),
		string(TypeLeave),
		string(TypeVacation),
		string(TypeBusinessTrip),
		string(TypeOther),
	}
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is a manual presence request: an employee asking for an absence
// period to be recorded as attended. Status transitions are one-way
// (pending -> approved | rejected); a processed request is immutable.
type Request struct {
	ID             string
	UserID         string
	Type           RequestType
	StartDate      time.Time
	EndDate        time.Time
	Reason         string
	AttachmentPath *string
	Status         RequestStatus
	ApprovedBy     *string
	ApprovedAt     *time.Time
	ApprovalNotes  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join fields populated by list queries
	UserName     *string
	ApproverName *string
	CompanyID    *string
}

func (r Request) IsPending() bool {
	return r.Status == StatusPending
}
