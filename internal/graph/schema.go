// Package graph exposes the service as a GraphQL API.
package graph

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/service"
)

//go:embed schema.graphql
var schemaSDL string

const (
	maxDepth   = 10
	presignTTL = time.Hour
)

// Presigner issues time limited download URLs for stored media objects.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	svc   *service.Service
	media Presigner
	log   *zap.Logger
}

// NewSchema parses the embedded schema against a root resolver. media may be
// nil, in which case stored URLs are returned as they are.
func NewSchema(svc *service.Service, media Presigner, log *zap.Logger) *graphql.Schema {
	r := &Resolver{svc: svc, media: media, log: log}
	return graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{log: log}),
	)
}

// Handler serves POST /graphql.
func Handler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}

// mediaURL returns a presigned URL for key, or fallback when no object is
// stored or signing fails.
func (r *Resolver) mediaURL(ctx context.Context, key, fallback string) string {
	if key == "" || r.media == nil {
		return fallback
	}
	u, err := r.media.PresignGet(ctx, key, presignTTL)
	if err != nil {
		r.log.Warn("presign media failed", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return u
}
