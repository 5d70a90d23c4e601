// Package service holds helpers shared by the per-resource services.
package service

import (
	"context"
	"strconv"
)

// Resolve looks a record up by its flexible identifier: a numeric internal
// id first, then the human-readable code. Codes always carry a letter prefix
// so the two strategies never collide.
func Resolve[T any](ctx context.Context, identifier string,
	byID func(context.Context, int64) (T, error),
	byCode func(context.Context, string) (T, error)) (T, error) {

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return byID(ctx, id)
	}
	return byCode(ctx, identifier)
}
