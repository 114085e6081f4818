package presenceconfig

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Nova-Gear/presence-api/internal/domain/company"
	"github.com/Nova-Gear/presence-api/internal/domain/presenceconfig"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

type configServiceImpl struct {
	configRepo  presenceconfig.ConfigRepository
	companyRepo company.CompanyRepository
}

func NewConfigService(
	configRepo presenceconfig.ConfigRepository,
	companyRepo company.CompanyRepository,
) presenceconfig.ConfigService {
	return &configServiceImpl{
		configRepo:  configRepo,
		companyRepo: companyRepo,
	}
}

// companyFor resolves which company the principal is operating on. Company
// admins are pinned to their own company; super admins use the requested one.
func (s *configServiceImpl) companyFor(principal user.Principal, requested string) (string, error) {
	if principal.IsSuperAdmin() {
		return requested, nil
	}
	if principal.CompanyID == nil {
		return "", user.ErrAdminAccessRequired
	}
	if requested != "" && requested != *principal.CompanyID {
		return "", presenceconfig.ErrCompanyScopeViolated
	}
	return *principal.CompanyID, nil
}

func (s *configServiceImpl) Create(ctx context.Context, principal user.Principal, req presenceconfig.CreateConfigRequest) (presenceconfig.ConfigResponse, error) {
	if !principal.Can(user.ActionConfigManage) {
		return presenceconfig.ConfigResponse{}, user.ErrAdminAccessRequired
	}
	if errs := req.Validate(); len(errs) > 0 {
		return presenceconfig.ConfigResponse{}, errs
	}

	companyID, err := s.companyFor(principal, req.CompanyID)
	if err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	if !c.IsActive {
		return presenceconfig.ConfigResponse{}, company.ErrCompanyInactive
	}

	config := presenceconfig.Config{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  req.IsActive,
	}
	if config.CheckinStart, err = presenceconfig.ParseTimeOfDay(req.CheckinStart); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	if config.CheckinEnd, err = presenceconfig.ParseTimeOfDay(req.CheckinEnd); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	if config.CheckoutStart, err = presenceconfig.ParseTimeOfDay(req.CheckoutStart); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	if config.CheckoutEnd, err = presenceconfig.ParseTimeOfDay(req.CheckoutEnd); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	if err := config.ValidateWindows(); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	now := time.Now()
	config.CreatedAt = now
	config.UpdatedAt = now

	// The unique index on active configs backs this up under concurrency;
	// the repository maps its violation to ErrActiveConfigExists.
	if err := s.configRepo.Create(ctx, &config); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	return presenceconfig.ToConfigResponse(config), nil
}

func (s *configServiceImpl) Update(ctx context.Context, principal user.Principal, id string, req presenceconfig.UpdateConfigRequest) (presenceconfig.ConfigResponse, error) {
	if !principal.Can(user.ActionConfigManage) {
		return presenceconfig.ConfigResponse{}, user.ErrAdminAccessRequired
	}
	if errs := req.Validate(); len(errs) > 0 {
		return presenceconfig.ConfigResponse{}, errs
	}

	config, err := s.getScoped(ctx, principal, id)
	if err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	if req.CheckinStart != nil {
		if config.CheckinStart, err = presenceconfig.ParseTimeOfDay(*req.CheckinStart); err != nil {
			return presenceconfig.ConfigResponse{}, err
		}
	}
	if req.CheckinEnd != nil {
		if config.CheckinEnd, err = presenceconfig.ParseTimeOfDay(*req.CheckinEnd); err != nil {
			return presenceconfig.ConfigResponse{}, err
		}
	}
	if req.CheckoutStart != nil {
		if config.CheckoutStart, err = presenceconfig.ParseTimeOfDay(*req.CheckoutStart); err != nil {
			return presenceconfig.ConfigResponse{}, err
		}
	}
	if req.CheckoutEnd != nil {
		if config.CheckoutEnd, err = presenceconfig.ParseTimeOfDay(*req.CheckoutEnd); err != nil {
			return presenceconfig.ConfigResponse{}, err
		}
	}
	if err := config.ValidateWindows(); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	// Activation conflicts with an existing active config. The caller must
	// deactivate the old one first; the partial unique index catches races.
	if req.IsActive != nil && *req.IsActive && !config.IsActive {
		current, err := s.configRepo.GetActiveByCompany(ctx, config.CompanyID)
		if err != nil && !errors.Is(err, presenceconfig.ErrNoActiveConfig) {
			return presenceconfig.ConfigResponse{}, err
		}
		if err == nil && current.ID != config.ID {
			return presenceconfig.ConfigResponse{}, presenceconfig.ErrActiveConfigExists
		}
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}
	config.UpdatedAt = time.Now()

	if err := s.configRepo.Update(ctx, &config); err != nil {
		return presenceconfig.ConfigResponse{}, err
	}

	return presenceconfig.ToConfigResponse(config), nil
}

func (s *configServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (presenceconfig.ConfigResponse, error) {
	if !principal.Can(user.ActionConfigManage) {
		return presenceconfig.ConfigResponse{}, user.ErrAdminAccessRequired
	}
	config, err := s.getScoped(ctx, principal, id)
	if err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	return presenceconfig.ToConfigResponse(config), nil
}

// GetActive is open to every authenticated member of a company, not just
// admins: clients need the windows to render check-in state.
func (s *configServiceImpl) GetActive(ctx context.Context, principal user.Principal) (presenceconfig.ConfigResponse, error) {
	if principal.CompanyID == nil {
		return presenceconfig.ConfigResponse{}, presenceconfig.ErrNoActiveConfig
	}
	config, err := s.configRepo.GetActiveByCompany(ctx, *principal.CompanyID)
	if err != nil {
		return presenceconfig.ConfigResponse{}, err
	}
	return presenceconfig.ToConfigResponse(config), nil
}

func (s *configServiceImpl) List(ctx context.Context, principal user.Principal, companyID string) ([]presenceconfig.ConfigResponse, error) {
	if !principal.Can(user.ActionConfigManage) {
		return nil, user.ErrAdminAccessRequired
	}
	target, err := s.companyFor(principal, companyID)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, validator.ValidationErrors{{Field: "company_id", Message: "company_id is required"}}
	}
	configs, err := s.configRepo.ListByCompany(ctx, target)
	if err != nil {
		return nil, err
	}
	return presenceconfig.ToConfigResponses(configs), nil
}

func (s *configServiceImpl) Delete(ctx context.Context, principal user.Principal, id string) error {
	if !principal.Can(user.ActionConfigManage) {
		return user.ErrAdminAccessRequired
	}
	config, err := s.getScoped(ctx, principal, id)
	if err != nil {
		return err
	}
	if config.IsActive {
		return presenceconfig.ErrCannotDeleteActive
	}
	return s.configRepo.Delete(ctx, config.ID)
}

// getScoped fetches a config and hides it from admins of other companies.
func (s *configServiceImpl) getScoped(ctx context.Context, principal user.Principal, id string) (presenceconfig.Config, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return presenceconfig.Config{}, err
	}
	if !principal.IsSuperAdmin() {
		if principal.CompanyID == nil || config.CompanyID != *principal.CompanyID {
			return presenceconfig.Config{}, presenceconfig.ErrConfigNotFound
		}
	}
	return config, nil
}
