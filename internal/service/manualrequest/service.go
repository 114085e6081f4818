package manualrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Nova-Gear/presence-api/internal/domain/manualrequest"
	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
	"github.com/Nova-Gear/presence-api/internal/service/file"
)

// syntheticCheckinHour is the wall-clock hour stamped on the presence record
// materialized by an approval.
const syntheticCheckinHour = 8

type requestServiceImpl struct {
	requestRepo  manualrequest.RequestRepository
	presenceRepo presence.PresenceRepository
	userRepo     user.UserRepository
	fileService  file.FileService
	tx           database.TxRunner
	logger       *slog.Logger

	now func() time.Time
}

func NewRequestService(
	requestRepo manualrequest.RequestRepository,
	presenceRepo presence.PresenceRepository,
	userRepo user.UserRepository,
	fileService file.FileService,
	tx database.TxRunner,
	logger *slog.Logger,
) manualrequest.RequestService {
	return &requestServiceImpl{
		requestRepo:  requestRepo,
		presenceRepo: presenceRepo,
		userRepo:     userRepo,
		fileService:  fileService,
		tx:           tx,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *requestServiceImpl) Submit(ctx context.Context, principal user.Principal, req manualrequest.SubmitRequest, attachment *manualrequest.Attachment) (manualrequest.RequestResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return manualrequest.RequestResponse{}, errs
	}

	if errs := s.futureDateErrors(req.StartDate, req.EndDate); len(errs) > 0 {
		return manualrequest.RequestResponse{}, errs
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	overlapping, err := s.requestRepo.HasOverlappingPending(ctx, principal.UserID, start, end, "")
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if overlapping {
		return manualrequest.RequestResponse{}, manualrequest.ErrOverlappingRequest
	}

	now := s.now()
	request := manualrequest.Request{
		ID:        uuid.New().String(),
		UserID:    principal.UserID,
		Type:      manualrequest.RequestType(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    manualrequest.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if attachment != nil {
		path, err := s.fileService.UploadRequestAttachment(ctx, principal.UserID, attachment.Reader, attachment.Filename)
		if err != nil {
			s.logger.WarnContext(ctx, "request attachment upload failed, submitting without attachment",
				slog.String("user_id", principal.UserID), slog.Any("error", err))
		} else {
			request.AttachmentPath = &path
		}
	}

	if err := s.requestRepo.Create(ctx, &request); err != nil {
		return manualrequest.RequestResponse{}, err
	}

	return manualrequest.ToRequestResponse(request), nil
}

func (s *requestServiceImpl) MyRequests(ctx context.Context, principal user.Principal, filter manualrequest.ListFilter) ([]manualrequest.RequestResponse, int, error) {
	filter.Normalize()
	filter.UserID = principal.UserID

	requests, total, err := s.requestRepo.List(ctx, filter, user.OwnScope(principal))
	if err != nil {
		return nil, 0, err
	}
	return manualrequest.ToRequestResponses(requests), total, nil
}

func (s *requestServiceImpl) List(ctx context.Context, principal user.Principal, filter manualrequest.ListFilter) ([]manualrequest.RequestResponse, int, error) {
	if !principal.IsAdmin() {
		return nil, 0, user.ErrAdminAccessRequired
	}
	filter.Normalize()

	requests, total, err := s.requestRepo.List(ctx, filter, user.ScopeFor(principal))
	if err != nil {
		return nil, 0, err
	}
	return manualrequest.ToRequestResponses(requests), total, nil
}

func (s *requestServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (manualrequest.RequestResponse, error) {
	scope := user.ScopeFor(principal)
	request, err := s.requestRepo.GetByID(ctx, id, scope)
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	return manualrequest.ToRequestResponse(request), nil
}

// Update edits a pending request. Only the requester can edit: the lookup
// uses their own scope, so anyone else's request simply looks missing.
func (s *requestServiceImpl) Update(ctx context.Context, principal user.Principal, id string, req manualrequest.UpdateRequest) (manualrequest.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id, user.OwnScope(principal))
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if !request.IsPending() {
		return manualrequest.RequestResponse{}, manualrequest.ErrAlreadyProcessed
	}

	merged := manualrequest.SubmitRequest{
		Type:      string(request.Type),
		StartDate: request.StartDate.Format("2006-01-02"),
		EndDate:   request.EndDate.Format("2006-01-02"),
		Reason:    request.Reason,
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.StartDate != nil {
		merged.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		merged.EndDate = *req.EndDate
	}
	if req.Reason != nil {
		merged.Reason = *req.Reason
	}

	if errs := merged.Validate(); len(errs) > 0 {
		return manualrequest.RequestResponse{}, errs
	}
	if errs := s.futureDateErrors(merged.StartDate, merged.EndDate); len(errs) > 0 {
		return manualrequest.RequestResponse{}, errs
	}

	start, _ := time.Parse("2006-01-02", merged.StartDate)
	end, _ := time.Parse("2006-01-02", merged.EndDate)

	overlapping, err := s.requestRepo.HasOverlappingPending(ctx, principal.UserID, start, end, request.ID)
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if overlapping {
		return manualrequest.RequestResponse{}, manualrequest.ErrOverlappingRequest
	}

	request.Type = manualrequest.RequestType(merged.Type)
	request.StartDate = start
	request.EndDate = end
	request.Reason = merged.Reason
	request.UpdatedAt = s.now()

	if err := s.requestRepo.UpdateIfPending(ctx, &request); err != nil {
		return manualrequest.RequestResponse{}, err
	}

	return manualrequest.ToRequestResponse(request), nil
}

// Withdraw deletes a pending request. Same ownership rule as Update.
func (s *requestServiceImpl) Withdraw(ctx context.Context, principal user.Principal, id string) error {
	request, err := s.requestRepo.GetByID(ctx, id, user.OwnScope(principal))
	if err != nil {
		return err
	}
	if !request.IsPending() {
		return manualrequest.ErrAlreadyProcessed
	}

	if err := s.requestRepo.DeleteIfPending(ctx, request.ID); err != nil {
		return err
	}

	if request.AttachmentPath != nil {
		if err := s.fileService.DeleteFile(ctx, *request.AttachmentPath); err != nil {
			s.logger.WarnContext(ctx, "request attachment cleanup failed",
				slog.String("request_id", request.ID), slog.Any("error", err))
		}
	}

	return nil
}

// Approve transitions the request to approved and materializes a synthetic
// check-in on the request's start date. Both writes share one transaction:
// an approved request without its presence record would be unexplainable.
func (s *requestServiceImpl) Approve(ctx context.Context, principal user.Principal, id string, req manualrequest.DecisionRequest) (manualrequest.RequestResponse, error) {
	if !principal.Can(user.ActionRequestApprove) {
		return manualrequest.RequestResponse{}, user.ErrAdminAccessRequired
	}

	request, err := s.requestRepo.GetByID(ctx, id, user.ScopeFor(principal))
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if !request.IsPending() {
		return manualrequest.RequestResponse{}, manualrequest.ErrAlreadyProcessed
	}

	exists, err := s.presenceRepo.HasEventOn(ctx, request.UserID, request.StartDate)
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if exists {
		return manualrequest.RequestResponse{}, manualrequest.ErrPresenceExists
	}

	approver, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}

	now := s.now()
	notes := fmt.Sprintf("Manual entry approved by %s. Reason: %s", approver.Name, request.Reason)
	checkinAt := time.Date(
		request.StartDate.Year(), request.StartDate.Month(), request.StartDate.Day(),
		syntheticCheckinHour, 0, 0, 0, request.StartDate.Location(),
	)

	record := presence.Presence{
		ID:           uuid.New().String(),
		UserID:       request.UserID,
		Type:         presence.EventCheckin,
		Source:       presence.SourceManual,
		Status:       presence.StatusPresent,
		PresenceTime: checkinAt,
		PresenceDate: dateOf(request.StartDate),
		Notes:        &notes,
		IsValid:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requestRepo.UpdateStatusIfPending(ctx, request.ID, manualrequest.StatusApproved, principal.UserID, now, req.Notes); err != nil {
			return err
		}
		if err := s.presenceRepo.Create(ctx, &record); err != nil {
			if errors.Is(err, presence.ErrDuplicateEvent) {
				return manualrequest.ErrPresenceExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}

	request.Status = manualrequest.StatusApproved
	request.ApprovedBy = &approver.ID
	request.ApproverName = &approver.Name
	request.ApprovedAt = &now
	request.ApprovalNotes = req.Notes
	request.UpdatedAt = now

	s.logger.InfoContext(ctx, "manual presence request approved",
		slog.String("request_id", request.ID),
		slog.String("user_id", request.UserID),
		slog.String("approved_by", principal.UserID))

	return manualrequest.ToRequestResponse(request), nil
}

func (s *requestServiceImpl) Reject(ctx context.Context, principal user.Principal, id string, req manualrequest.DecisionRequest) (manualrequest.RequestResponse, error) {
	if !principal.Can(user.ActionRequestReject) {
		return manualrequest.RequestResponse{}, user.ErrAdminAccessRequired
	}

	request, err := s.requestRepo.GetByID(ctx, id, user.ScopeFor(principal))
	if err != nil {
		return manualrequest.RequestResponse{}, err
	}
	if !request.IsPending() {
		return manualrequest.RequestResponse{}, manualrequest.ErrAlreadyProcessed
	}

	now := s.now()
	if err := s.requestRepo.UpdateStatusIfPending(ctx, request.ID, manualrequest.StatusRejected, principal.UserID, now, req.Notes); err != nil {
		return manualrequest.RequestResponse{}, err
	}

	request.Status = manualrequest.StatusRejected
	request.ApprovedBy = &principal.UserID
	request.ApprovedAt = &now
	request.ApprovalNotes = req.Notes
	request.UpdatedAt = now

	return manualrequest.ToRequestResponse(request), nil
}

// futureDateErrors enforces that requests explain past or current absences:
// both dates must be today or earlier. ISO dates compare lexicographically,
// which sidesteps timezone math.
func (s *requestServiceImpl) futureDateErrors(start, end string) validator.ValidationErrors {
	today := s.now().Format("2006-01-02")

	var errs validator.ValidationErrors
	if start > today {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must not be in the future"})
	}
	if end > today {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be in the future"})
	}
	return errs
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
