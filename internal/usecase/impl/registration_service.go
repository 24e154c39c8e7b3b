// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "membership/internal/delivery/context"
	"membership/internal/domain/entity"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/domain/repository"
	"membership/internal/domain/service"
	"membership/internal/domain/validation"
	"membership/internal/infra/metrics"
	"membership/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// publishTimeout bounds the post-registration event publish.
const publishTimeout = 5 * time.Second

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	validator  *validation.Validator
	memberRepo repository.MemberRepository
	hasher     service.PasswordHasher
	listCache  service.MemberListCache
	publisher  service.EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// RegistrationServiceParams holds dependencies for RegistrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	Validator  *validation.Validator
	MemberRepo repository.MemberRepository
	Hasher     service.PasswordHasher
	ListCache  service.MemberListCache
	Publisher  service.EventPublisher
	Metrics    *metrics.Metrics `optional:"true"`
	Logger     *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		validator:  params.Validator,
		memberRepo: params.MemberRepo,
		hasher:     params.Hasher,
		listCache:  params.ListCache,
		publisher:  params.Publisher,
		metrics:    params.Metrics,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register runs validate, hash, insert. The store's unique indexes are the only
// duplicate check, so concurrent sign-ups with the same email yield exactly one member.
func (srv *registrationService) Register(ctx context.Context, payload map[string]any) (*usecase.RegisterOutput, error) {
	defer srv.metrics.ObserveOperation("register", time.Now())

	submission, err := srv.validator.Registration(payload)
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if !errors.As(err, &validationErr) {
			srv.log(ctx).Error("Registration validator failed", slog.Any("error", err))
			srv.metrics.RecordRegistration(metrics.RegistrationError)

			return nil, errors.Wrap(domainerrors.ErrInternal, err.Error())
		}

		srv.log(ctx).Info("Registration rejected", slog.Any("fields", validationErr.Fields()))
		srv.metrics.RecordRegistration(metrics.RegistrationInvalid)

		return nil, errors.WithStack(validationErr)
	}

	hashedPassword, err := srv.hasher.Hash(submission.Password)
	if errors.Is(err, service.ErrPasswordTooLong) {
		srv.log(ctx).Info("Registration rejected", slog.Any("fields", []string{"password"}))
		srv.metrics.RecordRegistration(metrics.RegistrationInvalid)

		return nil, errors.WithStack(domainerrors.NewValidationError([]domainerrors.FieldViolation{
			validation.PasswordTooLong(),
		}))
	}
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))
		srv.metrics.RecordRegistration(metrics.RegistrationError)

		return nil, errors.Wrap(domainerrors.ErrInternal, "failed to hash password during registration")
	}

	member := submission.ToMember(hashedPassword)
	if err := srv.memberRepo.Create(ctx, member); err != nil {
		var conflictErr *domainerrors.ConflictError
		if errors.As(err, &conflictErr) {
			srv.log(ctx).Warn("Registration conflicts with an existing member",
				slog.String("conflict_key", string(conflictErr.Key)),
			)
			srv.metrics.RecordRegistration(metrics.RegistrationConflict)

			return nil, errors.Wrap(domainerrors.ErrAlreadyRegistered, conflictErr.Error())
		}

		srv.log(ctx).Error("Failed to create member", slog.Any("error", err))
		srv.metrics.RecordRegistration(metrics.RegistrationError)

		return nil, errors.Wrap(domainerrors.ErrInternal, "failed to create member")
	}

	srv.log(ctx).Info("Member registered", slog.Int64("memberID", member.ID))
	srv.metrics.RecordRegistration(metrics.RegistrationSuccess)

	srv.afterRegistration(ctx, member)

	return &usecase.RegisterOutput{User: usecase.NewRegisteredMember(member)}, nil
}

// afterRegistration drops cached listings and announces the new member.
// Neither step can fail the registration, which is already committed.
func (srv *registrationService) afterRegistration(ctx context.Context, member *entity.Member) {
	if err := srv.listCache.InvalidateNamespace(ctx, service.MemberListNamespace); err != nil {
		srv.log(ctx).Warn("Failed to invalidate member list cache", slog.Any("error", err))
	}

	event := &service.MemberRegisteredEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		EventID:      uuid.NewString(),
		EventType:    service.MemberRegisteredEventType,
		MemberID:     member.ID,
		Email:        member.Email,
		County:       member.County,
		RegisteredAt: member.CreatedAt,
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := srv.publisher.PublishMemberRegistered(publishCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish member registered event",
			slog.String("eventID", event.EventID),
			slog.Any("error", err),
		)
	}
}
