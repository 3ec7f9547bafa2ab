package graphql

import (
	_ "embed"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/PatchyVideo/pvgql/resolvers"
)

//go:embed schema.graphql
var schemaString string

// ParseSchema builds the executable schema over the given root resolver.
// The depth limit guards against pathologically nested queries; the video,
// playlist and notification types are mutually recursive so a limit is the
// only thing bounding execution.
func ParseSchema(root *resolvers.Resolver, maxDepth int) (*graphqlgo.Schema, error) {
	return graphqlgo.ParseSchema(schemaString, root,
		graphqlgo.MaxDepth(maxDepth),
	)
}
