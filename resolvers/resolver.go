// Package resolvers implements the GraphQL resolver tree over the REST
// backend. Each entity domain lives in its own file; the Resolver type is
// the query and mutation root.
package resolvers

import (
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/types"
)

// APIVersion is reported by the apiVersion fields.
const APIVersion = "1.0"

// Resolver is the root of the resolver tree. One instance serves all
// requests; per-request state travels on the context.
type Resolver struct {
	be     *backend.Client
	logger *slog.Logger
}

// New creates the root resolver.
func New(be *backend.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		be:     be,
		logger: logger.With("component", "resolvers"),
	}
}

// APIVersion resolves both Query.apiVersion and Mutation.apiVersion.
func (r *Resolver) APIVersion() string {
	return APIVersion
}

func oid(id types.ObjectID) graphql.ID {
	return graphql.ID(id.String())
}

func oidPtr(id *types.ObjectID) *graphql.ID {
	if id == nil {
		return nil
	}
	v := oid(*id)
	return &v
}

func gqlTime(t types.Time) graphql.Time {
	return graphql.Time{Time: t.Time}
}

// maxTagID is the largest tag id representable in a GraphQL Int. The
// backend reserves larger ids for internal bookkeeping; they are dropped
// from all client-facing tag lists.
const maxTagID = int64(2_147_483_647)

func clampTagIDs(ids []int64) []int32 {
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if id < maxTagID {
			out = append(out, int32(id))
		}
	}
	return out
}

// metaResolver exposes audit metadata common to most entities.
type metaResolver struct {
	m types.Meta
}

func (r *metaResolver) CreatedAt() graphql.Time {
	return gqlTime(r.m.CreatedAt)
}

func (r *metaResolver) CreatedBy() graphql.ID {
	return oid(r.m.CreatedBy)
}

func (r *metaResolver) ModifiedAt() *graphql.Time {
	if r.m.ModifiedAt == nil {
		return nil
	}
	t := gqlTime(*r.m.ModifiedAt)
	return &t
}

func (r *metaResolver) ModifiedBy() *graphql.ID {
	return oidPtr(r.m.ModifiedBy)
}
