package presence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/domain/presenceconfig"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/jwt"
	"github.com/Nova-Gear/presence-api/internal/service/file"
)

type presenceServiceImpl struct {
	presenceRepo presence.PresenceRepository
	deviceRepo   presence.DeviceMappingRepository
	configRepo   presenceconfig.ConfigRepository
	userRepo     user.UserRepository
	fileService  file.FileService
	jwtService   jwt.Service
	logger       *slog.Logger

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewPresenceService(
	presenceRepo presence.PresenceRepository,
	deviceRepo presence.DeviceMappingRepository,
	configRepo presenceconfig.ConfigRepository,
	userRepo user.UserRepository,
	fileService file.FileService,
	jwtService jwt.Service,
	logger *slog.Logger,
) presence.PresenceService {
	return &presenceServiceImpl{
		presenceRepo: presenceRepo,
		deviceRepo:   deviceRepo,
		configRepo:   configRepo,
		userRepo:     userRepo,
		fileService:  fileService,
		jwtService:   jwtService,
		logger:       logger,
		now:          time.Now,
	}
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *presenceServiceImpl) CheckIn(ctx context.Context, principal user.Principal, req presence.CheckInRequest, photo *presence.Photo) (presence.PresenceResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return presence.PresenceResponse{}, errs
	}

	now := s.now()
	today := dateOf(now)

	if _, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckin); err == nil {
		return presence.PresenceResponse{}, presence.ErrAlreadyCheckedIn
	} else if !errors.Is(err, presence.ErrPresenceNotFound) {
		return presence.PresenceResponse{}, err
	}

	status := s.classifyCheckin(ctx, principal.CompanyID, now)

	record := presence.Presence{
		ID:           uuid.New().String(),
		UserID:       principal.UserID,
		Type:         presence.EventCheckin,
		Source:       presence.SourceManual,
		Status:       status,
		PresenceTime: now,
		PresenceDate: today,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Notes:        req.Notes,
		IsValid:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Photo upload is best effort. A storage outage must not block people
	// from clocking in.
	if photo != nil {
		path, err := s.fileService.UploadPresenceProof(ctx, principal.UserID, today, photo.Reader, photo.Filename, string(presence.EventCheckin))
		if err != nil {
			s.logger.WarnContext(ctx, "check-in photo upload failed, recording event without photo",
				slog.String("user_id", principal.UserID), slog.Any("error", err))
		} else {
			record.PhotoPath = &path
		}
	}

	if err := s.presenceRepo.Create(ctx, &record); err != nil {
		if errors.Is(err, presence.ErrDuplicateEvent) {
			return presence.PresenceResponse{}, presence.ErrAlreadyCheckedIn
		}
		return presence.PresenceResponse{}, err
	}

	return presence.ToPresenceResponse(record), nil
}

func (s *presenceServiceImpl) CheckOut(ctx context.Context, principal user.Principal, req presence.CheckOutRequest, photo *presence.Photo) (presence.PresenceResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return presence.PresenceResponse{}, errs
	}

	now := s.now()
	today := dateOf(now)

	if _, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckin); err != nil {
		if errors.Is(err, presence.ErrPresenceNotFound) {
			return presence.PresenceResponse{}, presence.ErrNoCheckinToday
		}
		return presence.PresenceResponse{}, err
	}
	if _, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckout); err == nil {
		return presence.PresenceResponse{}, presence.ErrAlreadyCheckedOut
	} else if !errors.Is(err, presence.ErrPresenceNotFound) {
		return presence.PresenceResponse{}, err
	}

	status := s.classifyCheckout(ctx, principal.CompanyID, now)

	record := presence.Presence{
		ID:           uuid.New().String(),
		UserID:       principal.UserID,
		Type:         presence.EventCheckout,
		Source:       presence.SourceManual,
		Status:       status,
		PresenceTime: now,
		PresenceDate: today,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Notes:        req.Notes,
		IsValid:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if photo != nil {
		path, err := s.fileService.UploadPresenceProof(ctx, principal.UserID, today, photo.Reader, photo.Filename, string(presence.EventCheckout))
		if err != nil {
			s.logger.WarnContext(ctx, "check-out photo upload failed, recording event without photo",
				slog.String("user_id", principal.UserID), slog.Any("error", err))
		} else {
			record.PhotoPath = &path
		}
	}

	if err := s.presenceRepo.Create(ctx, &record); err != nil {
		if errors.Is(err, presence.ErrDuplicateEvent) {
			return presence.PresenceResponse{}, presence.ErrAlreadyCheckedOut
		}
		return presence.PresenceResponse{}, err
	}

	return presence.ToPresenceResponse(record), nil
}

func (s *presenceServiceImpl) Status(ctx context.Context, principal user.Principal) (presence.StatusResponse, error) {
	now := s.now()
	today := dateOf(now)

	resp := presence.StatusResponse{Date: today.Format("2006-01-02")}

	checkin, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckin)
	hasCheckin := err == nil
	if err != nil && !errors.Is(err, presence.ErrPresenceNotFound) {
		return presence.StatusResponse{}, err
	}
	checkout, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckout)
	hasCheckout := err == nil
	if err != nil && !errors.Is(err, presence.ErrPresenceNotFound) {
		return presence.StatusResponse{}, err
	}

	if hasCheckin {
		r := presence.ToPresenceResponse(checkin)
		resp.Checkin = &r
	}
	if hasCheckout {
		r := presence.ToPresenceResponse(checkout)
		resp.Checkout = &r
	}
	if hasCheckin && hasCheckout {
		minutes := int(checkout.PresenceTime.Sub(checkin.PresenceTime).Minutes())
		resp.WorkDurationMinutes = &minutes
	}

	config, err := s.activeConfig(ctx, principal.CompanyID)
	if err != nil {
		// Without a policy the client gets no action flags and no windows.
		return resp, nil
	}

	ciWindow := config.CheckinWindow()
	coWindow := config.CheckoutWindow()
	resp.CheckinWindow = &ciWindow
	resp.CheckoutWindow = &coWindow
	resp.CanCheckIn = !hasCheckin && config.IsWithinCheckinWindow(now)
	resp.CanCheckOut = hasCheckin && !hasCheckout && config.IsWithinCheckoutWindow(now)

	return resp, nil
}

func (s *presenceServiceImpl) Today(ctx context.Context, principal user.Principal) (presence.TodayResponse, error) {
	today := dateOf(s.now())

	resp := presence.TodayResponse{
		Date:   today.Format("2006-01-02"),
		Status: "not_checked_in",
	}

	checkin, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckin)
	if err != nil {
		if errors.Is(err, presence.ErrPresenceNotFound) {
			return resp, nil
		}
		return presence.TodayResponse{}, err
	}
	r := presence.ToPresenceResponse(checkin)
	resp.Checkin = &r
	resp.Status = string(checkin.Status)

	checkout, err := s.presenceRepo.GetEventOn(ctx, principal.UserID, today, presence.EventCheckout)
	if err != nil {
		if errors.Is(err, presence.ErrPresenceNotFound) {
			return resp, nil
		}
		return presence.TodayResponse{}, err
	}
	co := presence.ToPresenceResponse(checkout)
	resp.Checkout = &co
	// Leaving early trumps an on-time or late morning.
	if checkout.Status == presence.StatusEarlyLeave {
		resp.Status = string(presence.StatusEarlyLeave)
	}

	return resp, nil
}

func (s *presenceServiceImpl) History(ctx context.Context, principal user.Principal, filter presence.ListFilter) ([]presence.PresenceResponse, int, error) {
	filter.Normalize()
	filter.UserID = principal.UserID

	records, total, err := s.presenceRepo.List(ctx, filter, user.OwnScope(principal))
	if err != nil {
		return nil, 0, err
	}
	return presence.ToPresenceResponses(records), total, nil
}

func (s *presenceServiceImpl) CompanyHistory(ctx context.Context, principal user.Principal, filter presence.ListFilter) ([]presence.PresenceResponse, int, error) {
	if !principal.Can(user.ActionCompanyHistory) {
		return nil, 0, user.ErrAdminAccessRequired
	}
	filter.Normalize()

	records, total, err := s.presenceRepo.List(ctx, filter, user.ScopeFor(principal))
	if err != nil {
		return nil, 0, err
	}
	return presence.ToPresenceResponses(records), total, nil
}

func (s *presenceServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (presence.PresenceResponse, error) {
	record, err := s.presenceRepo.GetByID(ctx, id, user.ScopeFor(principal))
	if err != nil {
		return presence.PresenceResponse{}, err
	}
	return presence.ToPresenceResponse(record), nil
}

func (s *presenceServiceImpl) Delete(ctx context.Context, principal user.Principal, id string) error {
	if !principal.Can(user.ActionPresenceDelete) {
		return user.ErrAdminAccessRequired
	}

	record, err := s.presenceRepo.GetByID(ctx, id, user.ScopeFor(principal))
	if err != nil {
		return err
	}
	if err := s.presenceRepo.Delete(ctx, id, user.ScopeFor(principal)); err != nil {
		return err
	}

	if record.PhotoPath != nil {
		if err := s.fileService.DeleteFile(ctx, *record.PhotoPath); err != nil {
			s.logger.WarnContext(ctx, "failed to delete presence photo",
				slog.String("presence_id", id), slog.Any("error", err))
		}
	}
	return nil
}

// DeviceIngest records an event posted by hardware. Identity comes from the
// device registry, or from a pre-issued token when the payload carries one.
// The event type is inferred from what already exists today: no checkin yet
// means checkin, a checkin without checkout means checkout.
func (s *presenceServiceImpl) DeviceIngest(ctx context.Context, req presence.DeviceIngestRequest, at time.Time) (presence.PresenceResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return presence.PresenceResponse{}, errs
	}

	source, ok := presence.DeviceSourceFromCode(req.Type)
	if !ok {
		return presence.PresenceResponse{}, presence.ErrUnknownDeviceType
	}

	userID, err := s.resolveDeviceUser(ctx, source, req)
	if err != nil {
		return presence.PresenceResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return presence.PresenceResponse{}, presence.ErrUnresolvedIdentity
		}
		return presence.PresenceResponse{}, err
	}
	if !u.IsActive {
		return presence.PresenceResponse{}, user.ErrUserInactive
	}

	if at.IsZero() {
		at = s.now()
	}
	today := dateOf(at)

	eventType := presence.EventCheckin
	if _, err := s.presenceRepo.GetEventOn(ctx, userID, today, presence.EventCheckin); err == nil {
		eventType = presence.EventCheckout
		if _, err := s.presenceRepo.GetEventOn(ctx, userID, today, presence.EventCheckout); err == nil {
			return presence.PresenceResponse{}, presence.ErrAlreadyCheckedOut
		} else if !errors.Is(err, presence.ErrPresenceNotFound) {
			return presence.PresenceResponse{}, err
		}
	} else if !errors.Is(err, presence.ErrPresenceNotFound) {
		return presence.PresenceResponse{}, err
	}

	var status presence.Status
	if eventType == presence.EventCheckin {
		status = s.classifyCheckin(ctx, u.CompanyID, at)
	} else {
		status = s.classifyCheckout(ctx, u.CompanyID, at)
	}

	record := presence.Presence{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         eventType,
		Source:       source,
		Status:       status,
		PresenceTime: at,
		PresenceDate: today,
		IsValid:      true,
		CreatedAt:    at,
		UpdatedAt:    at,
	}

	if err := s.presenceRepo.Create(ctx, &record); err != nil {
		if errors.Is(err, presence.ErrDuplicateEvent) {
			if eventType == presence.EventCheckin {
				return presence.PresenceResponse{}, presence.ErrAlreadyCheckedIn
			}
			return presence.PresenceResponse{}, presence.ErrAlreadyCheckedOut
		}
		return presence.PresenceResponse{}, err
	}

	s.logger.InfoContext(ctx, "device presence recorded",
		slog.String("user_id", userID),
		slog.String("source", string(source)),
		slog.String("type", string(eventType)))

	return presence.ToPresenceResponse(record), nil
}

func (s *presenceServiceImpl) resolveDeviceUser(ctx context.Context, source presence.Source, req presence.DeviceIngestRequest) (string, error) {
	if req.Identifier != "" {
		userID, err := s.deviceRepo.ResolveUserID(ctx, source, req.Identifier)
		if err == nil {
			return userID, nil
		}
		if !errors.Is(err, presence.ErrUnresolvedIdentity) {
			return "", err
		}
	}
	if req.Token != nil && *req.Token != "" {
		principal, err := s.jwtService.DecodeAccessToken(*req.Token)
		if err != nil {
			return "", presence.ErrUnresolvedIdentity
		}
		return principal.UserID, nil
	}
	return "", presence.ErrUnresolvedIdentity
}

// classifyCheckin labels a check-in against the company's active window
// policy. No policy (or no company) means no classification.
func (s *presenceServiceImpl) classifyCheckin(ctx context.Context, companyID *string, at time.Time) presence.Status {
	config, err := s.activeConfig(ctx, companyID)
	if err != nil {
		return presence.StatusPresent
	}
	if config.IsCheckinLate(at) {
		return presence.StatusLate
	}
	return presence.StatusPresent
}

func (s *presenceServiceImpl) classifyCheckout(ctx context.Context, companyID *string, at time.Time) presence.Status {
	config, err := s.activeConfig(ctx, companyID)
	if err != nil {
		return presence.StatusPresent
	}
	if config.IsCheckoutEarly(at) {
		return presence.StatusEarlyLeave
	}
	return presence.StatusPresent
}

func (s *presenceServiceImpl) activeConfig(ctx context.Context, companyID *string) (presenceconfig.Config, error) {
	if companyID == nil {
		return presenceconfig.Config{}, presenceconfig.ErrNoActiveConfig
	}
	return s.configRepo.GetActiveByCompany(ctx, *companyID)
}
