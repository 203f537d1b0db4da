// Package resolver executes GraphQL paged queries against a database.
//
// Each entity in the metamodel gets a root query field returning a page
// envelope with records, total, and pages sections. Only requested
// sections are computed and returned: record fetching runs a windowed
// content query, and total/pages run an independent count query.
package resolver

import (
	"fmt"
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/observability"
	"graphql-pagequery/internal/predicate"
	"graphql-pagequery/internal/reserved"
)

// Resolver builds the GraphQL schema for a metamodel and resolves its
// paged query fields. Type caches avoid redundant construction and keep
// circular references stable.
type Resolver struct {
	executor        dbexec.QueryExecutor
	model           *metamodel.Model
	names           reserved.Names
	defaultDistinct bool
	predicates      *predicate.Resolver
	metrics         *observability.QueryMetrics

	typeCache      map[string]*graphql.Object
	pageCache      map[string]*graphql.Object
	whereCache     map[string]*graphql.InputObject
	filterCache    map[string]*graphql.InputObject
	relFilterCache map[string]*graphql.InputObject
	pageInput      *graphql.InputObject
	mu             sync.RWMutex
}

// Options adjusts resolver behavior beyond the defaults.
type Options struct {
	// Names overrides the reserved argument and envelope names.
	Names *reserved.Names
	// DefaultDistinct is the deduplication default applied when a request
	// does not pass the distinct argument.
	DefaultDistinct bool
	// Metrics records per-query measurements when set.
	Metrics *observability.QueryMetrics
}

// NewResolver creates a resolver over the given executor and metamodel.
func NewResolver(executor dbexec.QueryExecutor, model *metamodel.Model, opts Options) *Resolver {
	names := reserved.Defaults()
	if opts.Names != nil {
		names = *opts.Names
	}
	return &Resolver{
		executor:        executor,
		model:           model,
		names:           names,
		defaultDistinct: opts.DefaultDistinct,
		predicates:      predicate.NewResolver(model, names),
		metrics:         opts.Metrics,
		typeCache:       make(map[string]*graphql.Object),
		pageCache:       make(map[string]*graphql.Object),
		whereCache:      make(map[string]*graphql.InputObject),
		filterCache:     make(map[string]*graphql.InputObject),
		relFilterCache:  make(map[string]*graphql.InputObject),
	}
}

// BuildGraphQLSchema constructs an executable GraphQL schema with one
// paged query field per entity.
func (r *Resolver) BuildGraphQLSchema() (graphql.Schema, error) {
	queryFields := graphql.Fields{}

	for i := range r.model.Entities {
		entity := &r.model.Entities[i]
		queryFields[entity.QueryFieldName] = &graphql.Field{
			Type:    r.pageType(entity),
			Args:    r.pagedQueryArgs(entity),
			Resolve: r.makePagedResolver(entity),
		}
	}

	// A schema needs at least one query field even for an empty database.
	if len(queryFields) == 0 {
		queryFields["_schema"] = &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return "No tables found in database", nil
			},
			Description: "Placeholder field when database has no tables",
		}
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
	})
}

func (r *Resolver) findEntity(table string) (*metamodel.Entity, error) {
	entity, ok := r.model.EntityByTable(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}
	return entity, nil
}

func firstFieldAST(fields []*ast.Field) *ast.Field {
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}
