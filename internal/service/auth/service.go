package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nova-Gear/presence-api/internal/domain/auth"
	"github.com/Nova-Gear/presence-api/internal/domain/company"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/jwt"
)

type authServiceImpl struct {
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	jwtService  jwt.Service
}

func NewAuthService(userRepo user.UserRepository, companyRepo company.CompanyRepository, jwtService jwt.Service) auth.AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return auth.LoginResponse{}, errs
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Same error either way so login can't be used to probe emails.
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !u.IsActive {
		return auth.LoginResponse{}, user.ErrUserInactive
	}

	if u.CompanyID != nil {
		c, err := s.companyRepo.GetByID(ctx, *u.CompanyID)
		if err != nil {
			return auth.LoginResponse{}, err
		}
		if !c.IsActive {
			return auth.LoginResponse{}, company.ErrCompanyInactive
		}
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.CompanyID, u.Role)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Unix(expiresAt, 0),
		User: auth.UserInfo{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			CompanyID: u.CompanyID,
		},
	}, nil
}
