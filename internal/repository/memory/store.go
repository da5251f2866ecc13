// Package memory is a process-local storage backend used for development
// and tests. Records are copied in and out so callers never share state
// with the store.
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/repository"
)

// NewStore returns an empty in-memory store.
func NewStore() *repository.Store {
	return &repository.Store{
		Principals:    NewPrincipalRepository(),
		Ideas:         NewIdeaRepository(),
		Notifications: NewNotificationRepository(),
		Pinger:        pinger{},
		Close:         func(context.Context) error { return nil },
	}
}

type pinger struct{}

func (pinger) Ping(context.Context) error { return nil }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 || skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
