package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/requester"
)

const headerProviderIdempotencyKey = "X-Idempotency-Key"

// providerKeyNamespace scopes the name-based UUIDs sent as provider idempotency keys.
var providerKeyNamespace = uuid.MustParse("5b0e8f4a-6f0b-4c1e-9d5e-3f1f2a7c9e41")

type providerKeyCtx struct{}

// ProviderIdempotencyKey derives the provider idempotency key for a
// submission key. The same submission key always yields the same value.
func ProviderIdempotencyKey(submissionKey string) string {
	return uuid.NewSHA1(providerKeyNamespace, []byte(submissionKey)).String()
}

func withProviderIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, providerKeyCtx{}, key)
}

// idempotentRequester overrides the random X-Idempotency-Key the SDK puts on
// every POST with the key carried by the request context, so every attempt of
// one submission is deduplicated by the provider.
type idempotentRequester struct {
	next requester.Requester
}

// NewIdempotentRequester wraps next; a nil next uses an http.Client with a 10s timeout.
func NewIdempotentRequester(next requester.Requester) requester.Requester {
	if next == nil {
		next = &http.Client{Timeout: 10 * time.Second}
	}
	return &idempotentRequester{next: next}
}

func (r *idempotentRequester) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		if key, ok := req.Context().Value(providerKeyCtx{}).(string); ok && key != "" {
			req = req.Clone(req.Context())
			req.Header.Set(headerProviderIdempotencyKey, key)
		}
	}
	return r.next.Do(req)
}
