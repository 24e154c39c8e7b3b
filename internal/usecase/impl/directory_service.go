package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"membership/config"
	deliverycontext "membership/internal/delivery/context"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/domain/repository"
	"membership/internal/domain/service"
	"membership/internal/infra/metrics"
	"membership/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const memberListKey = "all"

// directoryService implements the DirectoryUsecase interface.
type directoryService struct {
	memberRepo repository.MemberRepository
	listCache  service.MemberListCache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// DirectoryServiceParams holds dependencies for DirectoryService, injected by Fx.
type DirectoryServiceParams struct {
	fx.In

	MemberRepo repository.MemberRepository
	ListCache  service.MemberListCache
	Config     *config.Config
	Metrics    *metrics.Metrics `optional:"true"`
	Logger     *slog.Logger
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(params DirectoryServiceParams) usecase.DirectoryUsecase {
	var ttl time.Duration
	if params.Config != nil && params.Config.Cache != nil {
		ttl = params.Config.Cache.TTL
	}

	return &directoryService{
		memberRepo: params.MemberRepo,
		listCache:  params.ListCache,
		cacheTTL:   ttl,
		metrics:    params.Metrics,
		logger:     params.Logger,
	}
}

func (srv *directoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List serves the listing from the cache when possible. Cache faults only cost a store read.
func (srv *directoryService) List(ctx context.Context) ([]*usecase.MemberView, error) {
	defer srv.metrics.ObserveOperation("list", time.Now())

	if views, ok := srv.cached(ctx); ok {
		srv.metrics.RecordList(metrics.ListSourceCache)

		return views, nil
	}

	// The generation is read before the store so that a registration committed
	// during ListAll invalidates this result instead of being masked by it.
	generation, cacheable := srv.generation(ctx)

	members, err := srv.memberRepo.ListAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list members", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternal, "failed to list members")
	}

	views := make([]*usecase.MemberView, 0, len(members))
	for _, member := range members {
		views = append(views, usecase.NewMemberView(member))
	}
	srv.metrics.RecordList(metrics.ListSourceStore)

	if cacheable {
		srv.store(ctx, generation, views)
	}

	return views, nil
}

func (srv *directoryService) cached(ctx context.Context) ([]*usecase.MemberView, bool) {
	payload, ok, err := srv.listCache.Get(ctx, service.MemberListNamespace, memberListKey)
	if err != nil {
		srv.log(ctx).Warn("Member list cache read failed", slog.Any("error", err))

		return nil, false
	}
	if !ok {
		return nil, false
	}

	var views []*usecase.MemberView
	if err := json.Unmarshal(payload, &views); err != nil {
		srv.log(ctx).Warn("Discarding undecodable member list cache entry", slog.Any("error", err))

		return nil, false
	}

	return views, true
}

func (srv *directoryService) generation(ctx context.Context) (int64, bool) {
	if srv.cacheTTL <= 0 {
		return 0, false
	}

	generation, err := srv.listCache.Generation(ctx, service.MemberListNamespace)
	if err != nil {
		srv.log(ctx).Warn("Member list cache generation read failed", slog.Any("error", err))

		return 0, false
	}

	return generation, true
}

func (srv *directoryService) store(ctx context.Context, generation int64, views []*usecase.MemberView) {
	payload, err := json.Marshal(views)
	if err != nil {
		srv.log(ctx).Warn("Failed to encode member list for cache", slog.Any("error", err))

		return
	}

	if err := srv.listCache.Set(ctx, service.MemberListNamespace, memberListKey, generation, payload, srv.cacheTTL); err != nil {
		srv.log(ctx).Warn("Member list cache write failed", slog.Any("error", err))
	}
}
