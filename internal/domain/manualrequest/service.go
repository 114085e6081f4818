package manualrequest

import (
	"context"
	"io"

	"github.com/Nova-Gear/presence-api/internal/domain/user"
)

// Attachment carries an optional supporting document uploaded with a
// request (doctor's note, travel order).
type Attachment struct {
	Reader   io.Reader
	Filename string
}

// RequestService runs the manual presence request workflow. Approve and
// Reject are admin decisions; Approve also materializes a synthetic
// check-in on the request's start date in the same transaction.
type RequestService interface {
	Submit(ctx context.Context, principal user.Principal, req SubmitRequest, attachment *Attachment) (RequestResponse, error)
	MyRequests(ctx context.Context, principal user.Principal, filter ListFilter) ([]RequestResponse, int, error)
	List(ctx context.Context, principal user.Principal, filter ListFilter) ([]RequestResponse, int, error)
	Get(ctx context.Context, principal user.Principal, id string) (RequestResponse, error)
	Update(ctx context.Context, principal user.Principal, id string, req UpdateRequest) (RequestResponse, error)
	Withdraw(ctx context.Context, principal user.Principal, id string) error
	Approve(ctx context.Context, principal user.Principal, id string, req DecisionRequest) (RequestResponse, error)
	Reject(ctx context.Context, principal user.Principal, id string, req DecisionRequest) (RequestResponse, error)
}
