package handlers

import (
	"context"
	"fmt"

	"techtree-backend/application/queries"
	"techtree-backend/application/queries/bus"
)

// Registry groups the query handlers for bus registration
type Registry struct {
	DeriveView  *DeriveViewHandler
	Tree        *TreeHandler
	ChatHistory *ChatHistoryHandler
}

// Register wires every handler into the bus. Derived views go through the
// cache; every handler goes through metrics when provided.
func (r Registry) Register(b *bus.QueryBus, caching *bus.CachingMiddleware, metrics *bus.MetricsMiddleware) error {
	wrap := func(h bus.QueryHandler, cached bool) bus.QueryHandler {
		if cached && caching != nil {
			h = caching.Wrap(h)
		}
		if metrics != nil {
			h = metrics.Wrap(h)
		}
		return h
	}

	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
		cached  bool
	}{
		{
			query: queries.DeriveViewQuery{},
			handler: typed(func(ctx context.Context, q queries.DeriveViewQuery) (interface{}, error) {
				return r.DeriveView.Handle(ctx, q)
			}),
			cached: true,
		},
		{
			query: queries.GetTreeQuery{},
			handler: typed(func(ctx context.Context, q queries.GetTreeQuery) (interface{}, error) {
				return r.Tree.HandleGetTree(ctx, q)
			}),
		},
		{
			query: queries.GetNodeQuery{},
			handler: typed(func(ctx context.Context, q queries.GetNodeQuery) (interface{}, error) {
				return r.Tree.HandleGetNode(ctx, q)
			}),
		},
		{
			query: queries.ListGroupingsQuery{},
			handler: typed(func(ctx context.Context, q queries.ListGroupingsQuery) (interface{}, error) {
				return r.Tree.HandleListGroupings(ctx, q)
			}),
		},
		{
			query: queries.GetChatHistoryQuery{},
			handler: typed(func(ctx context.Context, q queries.GetChatHistoryQuery) (interface{}, error) {
				return r.ChatHistory.Handle(ctx, q)
			}),
		},
	}

	for _, reg := range registrations {
		if err := b.Register(reg.query, wrap(reg.handler, reg.cached)); err != nil {
			return err
		}
	}
	return nil
}

// typed adapts a handler for one concrete query type to the bus interface.
func typed[Q bus.Query](fn func(ctx context.Context, q Q) (interface{}, error)) bus.QueryHandler {
	return bus.QueryHandlerFunc(func(ctx context.Context, query bus.Query) (interface{}, error) {
		q, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("unexpected query type %T", query)
		}
		return fn(ctx, q)
	})
}
