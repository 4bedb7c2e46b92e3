package queries

import "context"

type LocationReadStore interface {
	FindActive(ctx context.Context) ([]*LocationView, error)
}

type LocationQueries interface {
	ListActive(ctx context.Context) ([]*LocationView, error)
}

type locationQueriesImpl struct {
	readStore LocationReadStore
}

func NewLocationQueries(readStore LocationReadStore) LocationQueries {
	return &locationQueriesImpl{readStore: readStore}
}

func (q *locationQueriesImpl) ListActive(ctx context.Context) ([]*LocationView, error) {
	return q.readStore.FindActive(ctx)
}
