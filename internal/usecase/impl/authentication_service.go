package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "membership/internal/delivery/context"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/domain/repository"
	"membership/internal/domain/service"
	"membership/internal/infra/metrics"
	"membership/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authenticationService implements the AuthenticationUsecase interface.
type authenticationService struct {
	memberRepo repository.MemberRepository
	hasher     service.PasswordHasher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// AuthenticationServiceParams holds dependencies for AuthenticationService, injected by Fx.
type AuthenticationServiceParams struct {
	fx.In

	MemberRepo repository.MemberRepository
	Hasher     service.PasswordHasher
	Metrics    *metrics.Metrics `optional:"true"`
	Logger     *slog.Logger
}

// NewAuthenticationService is the constructor for authenticationService.
func NewAuthenticationService(params AuthenticationServiceParams) usecase.AuthenticationUsecase {
	return &authenticationService{
		memberRepo: params.MemberRepo,
		hasher:     params.Hasher,
		metrics:    params.Metrics,
		logger:     params.Logger,
	}
}

func (srv *authenticationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login looks the member up by email and verifies the password against the stored hash.
func (srv *authenticationService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	defer srv.metrics.ObserveOperation("login", time.Now())

	member, err := srv.memberRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			srv.log(ctx).Info("Login failed", slog.String("reason", "unknown email"))
			srv.metrics.RecordLogin(metrics.LoginInvalidCredentials)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "member not found")
		}

		srv.log(ctx).Error("Failed to find member during login", slog.Any("error", err))
		srv.metrics.RecordLogin(metrics.LoginError)

		return nil, errors.Wrap(domainerrors.ErrInternal, "failed to find member by email")
	}

	if !member.CanLogin() {
		srv.log(ctx).Warn("Login attempted on account without password", slog.Int64("memberID", member.ID))
		srv.metrics.RecordLogin(metrics.LoginAccountNotUsable)

		return nil, errors.WithStack(domainerrors.ErrAccountNotUsable)
	}

	if !srv.hasher.Check(input.Password, *member.PasswordHash) {
		srv.log(ctx).Info("Login failed", slog.String("reason", "password mismatch"), slog.Int64("memberID", member.ID))
		srv.metrics.RecordLogin(metrics.LoginInvalidCredentials)

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	srv.log(ctx).Info("Member logged in", slog.Int64("memberID", member.ID))
	srv.metrics.RecordLogin(metrics.LoginSuccess)

	return &usecase.LoginOutput{User: usecase.NewMemberProfile(member)}, nil
}
