package impl

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"membership/config"
	"membership/internal/domain/entity"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/domain/service"
	"membership/internal/infra/cache"
	"membership/internal/infra/metrics"
	mockRepo "membership/internal/mocks/repository"
	mockSvc "membership/internal/mocks/service"
	"membership/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type directoryServiceFixtures struct {
	service    usecase.DirectoryUsecase
	memberRepo *mockRepo.MockMemberRepository
	listCache  *mockSvc.MockMemberListCache
	metrics    *metrics.Metrics
}

func createTestDirectoryService(t *testing.T, ttl time.Duration) directoryServiceFixtures {
	memberRepo := mockRepo.NewMockMemberRepository(t)
	listCache := mockSvc.NewMockMemberListCache(t)
	m := metrics.New(metrics.NewRegistry())

	srv := NewDirectoryService(DirectoryServiceParams{
		MemberRepo: memberRepo,
		ListCache:  listCache,
		Config:     &config.Config{Cache: &config.CacheConfig{TTL: ttl}},
		Metrics:    m,
		Logger:     discardLogger(),
	})

	return directoryServiceFixtures{
		service:    srv,
		memberRepo: memberRepo,
		listCache:  listCache,
		metrics:    m,
	}
}

func storedMembers() []*entity.Member {
	hash := "$2a$10$hashed"
	newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	return []*entity.Member{
		{ID: 2, FirstName: "John", LastName: "Roe", Email: "john@example.com", Phone: "0722222222", IDNumber: "22222", County: "Kisumu", Role: entity.RoleAdmin, CreatedAt: newer, PasswordHash: &hash},
		{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "0711111111", IDNumber: "11111", County: "Nairobi", Role: entity.RoleMember, CreatedAt: newer.Add(-time.Hour)},
	}
}

func TestDirectoryService_List_MissReadsStoreAndFillsCache(t *testing.T) {
	fx := createTestDirectoryService(t, time.Minute)
	ctx := context.Background()

	var calls []string
	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return(nil, false, nil)
	fx.listCache.EXPECT().Generation(ctx, service.MemberListNamespace).
		Run(func(context.Context, string) { calls = append(calls, "generation") }).
		Return(3, nil)
	fx.memberRepo.EXPECT().ListAll(ctx).
		Run(func(context.Context) { calls = append(calls, "list") }).
		Return(storedMembers(), nil)

	var cached []byte
	fx.listCache.EXPECT().
		Set(ctx, service.MemberListNamespace, memberListKey, int64(3), mock.Anything, time.Minute).
		Run(func(_ context.Context, _, _ string, _ int64, value []byte, _ time.Duration) { cached = value }).
		Return(nil)

	views, err := fx.service.List(ctx)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].ID)
	assert.Equal(t, int64(1), views[1].ID)
	assert.Equal(t, "22222", views[0].IDNumber)
	assert.NotContains(t, string(cached), "hashed")
	assert.Equal(t, []string{"generation", "list"}, calls)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.ListRequests.WithLabelValues(metrics.ListSourceStore)), 0)
}

func TestDirectoryService_List_CacheHit(t *testing.T) {
	fx := createTestDirectoryService(t, time.Minute)
	ctx := context.Background()

	payload, err := json.Marshal([]*usecase.MemberView{{ID: 5, Email: "cached@example.com"}})
	require.NoError(t, err)
	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return(payload, true, nil)

	views, err := fx.service.List(ctx)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "cached@example.com", views[0].Email)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.ListRequests.WithLabelValues(metrics.ListSourceCache)), 0)
}

func TestDirectoryService_List_CacheFaultFallsBackToStore(t *testing.T) {
	fx := createTestDirectoryService(t, time.Minute)
	ctx := context.Background()

	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return(nil, false, errors.New("redis down"))
	fx.listCache.EXPECT().Generation(ctx, service.MemberListNamespace).Return(0, errors.New("redis down"))
	fx.memberRepo.EXPECT().ListAll(ctx).Return(storedMembers(), nil)
	// Without a generation nothing is written back: the mock has no Set expectation.

	views, err := fx.service.List(ctx)

	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestDirectoryService_List_CorruptCacheEntry(t *testing.T) {
	fx := createTestDirectoryService(t, 0)
	ctx := context.Background()

	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return([]byte("{not json"), true, nil)
	fx.memberRepo.EXPECT().ListAll(ctx).Return([]*entity.Member{}, nil)

	views, err := fx.service.List(ctx)

	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestDirectoryService_List_StoreFailure(t *testing.T) {
	fx := createTestDirectoryService(t, 0)
	ctx := context.Background()

	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return(nil, false, nil)
	fx.memberRepo.EXPECT().ListAll(ctx).Return(nil, domainerrors.NewStoreError("list members", errors.New("boom")))

	views, err := fx.service.List(ctx)

	assert.Nil(t, views)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}

func TestDirectoryService_List_CacheWriteFailureIsNotFatal(t *testing.T) {
	fx := createTestDirectoryService(t, time.Minute)
	ctx := context.Background()

	fx.listCache.EXPECT().Get(ctx, service.MemberListNamespace, memberListKey).Return(nil, false, nil)
	fx.listCache.EXPECT().Generation(ctx, service.MemberListNamespace).Return(1, nil)
	fx.memberRepo.EXPECT().ListAll(ctx).Return(storedMembers(), nil)
	fx.listCache.EXPECT().
		Set(ctx, service.MemberListNamespace, memberListKey, int64(1), mock.Anything, time.Minute).
		Return(errors.New("redis down"))

	views, err := fx.service.List(ctx)

	require.NoError(t, err)
	assert.Len(t, views, 2)
}

// A registration that commits while the listing is being read advances the
// generation; the listing is then written under the old generation and the
// next Get misses instead of serving it.
func TestDirectoryService_List_RegistrationDuringStoreReadIsNotMasked(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	listCache := cache.NewRedisMemberListCache(client, "test")

	memberRepo := mockRepo.NewMockMemberRepository(t)
	srv := NewDirectoryService(DirectoryServiceParams{
		MemberRepo: memberRepo,
		ListCache:  listCache,
		Config:     &config.Config{Cache: &config.CacheConfig{TTL: time.Minute}},
		Logger:     discardLogger(),
	})
	ctx := context.Background()

	before := storedMembers()[1:]
	after := storedMembers()

	memberRepo.EXPECT().ListAll(ctx).
		Run(func(ctx context.Context) {
			require.NoError(t, listCache.InvalidateNamespace(ctx, service.MemberListNamespace))
		}).
		Return(before, nil).
		Once()
	memberRepo.EXPECT().ListAll(ctx).Return(after, nil).Once()

	first, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	third, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2, "served from the cache written at the current generation")
}
