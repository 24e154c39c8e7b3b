package service

import (
	"context"
	"time"
)

// MemberListCache stores serialized admin listings. A miss is reported as
// (nil, false, nil); errors are reserved for backend faults.
//
// Each namespace has a generation that InvalidateNamespace advances. Get only
// serves entries written for the current generation, so a listing computed
// before an invalidation is never served after it: callers read Generation
// before loading from the store and pass it to Set.
type MemberListCache interface {
	Generation(ctx context.Context, namespace string) (int64, error)
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, generation int64, value []byte, ttl time.Duration) error
	InvalidateNamespace(ctx context.Context, namespace string) error
}

// MemberListNamespace groups every cached admin listing so a registration can drop them together.
const MemberListNamespace = "members"
