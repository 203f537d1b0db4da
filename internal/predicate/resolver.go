// Package predicate compiles query field arguments into SQL conditions.
//
// Every argument classifies as exactly one role. Structural arguments
// (pagination, distinct, bare logical grouping names) never produce a
// condition: the resolver returns nil for them rather than a vacuous
// always-true condition. Grouping operators only filter inside a where
// tree. Where trees and field filters compile to conditions against the
// entity's table.
package predicate

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/qerr"
	"graphql-pagequery/internal/reserved"
	"graphql-pagequery/internal/sqlutil"
)

// Resolver compiles argument maps into SQL conditions for one metamodel.
type Resolver struct {
	model *metamodel.Model
	names reserved.Names
}

// NewResolver creates a Resolver over the given metamodel.
func NewResolver(model *metamodel.Model, names reserved.Names) *Resolver {
	return &Resolver{model: model, names: names}
}

// Resolve compiles a single argument into a condition for entity. A nil
// condition with nil error means the argument is structural and filters
// nothing. Compile failures are reported as *qerr.PredicateError.
func (r *Resolver) Resolve(entity *metamodel.Entity, name string, value interface{}) (sq.Sqlizer, error) {
	var (
		cond sq.Sqlizer
		err  error
	)
	switch r.names.Classify(name) {
	case reserved.KindPage, reserved.KindDistinct, reserved.KindLogical:
		return nil, nil
	case reserved.KindWhere:
		cond, err = r.resolveWhere(entity, value)
	default:
		cond, err = r.resolveFieldFilter(entity, name, value)
	}
	if err != nil {
		return nil, &qerr.PredicateError{Argument: name, Err: err}
	}
	return cond, nil
}

// ResolveAll compiles every argument in order of argument name and returns
// the non-nil conditions.
func (r *Resolver) ResolveAll(entity *metamodel.Entity, args map[string]interface{}) ([]sq.Sqlizer, error) {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var conditions []sq.Sqlizer
	for _, name := range names {
		cond, err := r.Resolve(entity, name, args[name])
		if err != nil {
			return nil, err
		}
		if cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions, nil
}

func (r *Resolver) resolveWhere(entity *metamodel.Entity, value interface{}) (sq.Sqlizer, error) {
	tree, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("where must be an object")
	}
	return compileWhere(r.model, entity, "", tree)
}

// resolveFieldFilter compiles an argument naming an entity field into an
// equality condition. List values compile to IN.
func (r *Resolver) resolveFieldFilter(entity *metamodel.Entity, name string, value interface{}) (sq.Sqlizer, error) {
	attr, ok := entity.AttributeByField(name)
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	column := sqlutil.QuoteIdentifier(attr.Column)
	return sq.Eq{column: value}, nil
}
