package infra

import (
	"context"

	"github.com/dazzletools/wingather/internal/domain"
)

// CachedSignatureVerifier wraps a SignatureVerifier with a per-run
// cache keyed by executable path. Signature checks are the most
// expensive external call; each path is verified at most once.
// Errors are cached too, so an unavailable verifier is asked once.
type CachedSignatureVerifier struct {
	inner domain.SignatureVerifier
	cache map[string]sigResult
}

type sigResult struct {
	info domain.SignatureInfo
	err  error
}

// NewCachedSignatureVerifier wraps an inner verifier.
func NewCachedSignatureVerifier(inner domain.SignatureVerifier) *CachedSignatureVerifier {
	return &CachedSignatureVerifier{
		inner: inner,
		cache: make(map[string]sigResult),
	}
}

// Verify returns the cached result for a path, calling through on the
// first request only.
func (c *CachedSignatureVerifier) Verify(ctx context.Context, exePath string) (domain.SignatureInfo, error) {
	if r, ok := c.cache[exePath]; ok {
		return r.info, r.err
	}
	info, err := c.inner.Verify(ctx, exePath)
	c.cache[exePath] = sigResult{info: info, err: err}
	return info, err
}

// Ensure CachedSignatureVerifier implements domain.SignatureVerifier.
var _ domain.SignatureVerifier = (*CachedSignatureVerifier)(nil)
