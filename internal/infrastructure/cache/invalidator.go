package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"library-backend/pkg/cache"
)

// ViewInvalidator is the revalidation hook called after successful
// mutations. Views are cached under "view:<path>*" keys; dropping them
// forces the next read to hit the database.
type ViewInvalidator struct {
	cache cache.Cache
}

func NewViewInvalidator(c cache.Cache) *ViewInvalidator {
	return &ViewInvalidator{cache: c}
}

// Invalidate drops every cache entry belonging to the named views.
// Failures are logged, not propagated: the mutation already committed
// and a stale view heals on TTL expiry anyway.
func (v *ViewInvalidator) Invalidate(ctx context.Context, views ...string) {
	for _, view := range views {
		pattern := fmt.Sprintf("view:%s*", view)
		if err := v.cache.DeletePattern(ctx, pattern); err != nil {
			log.Warn().Err(err).Str("view", view).Msg("view invalidation failed")
		}
	}
}
