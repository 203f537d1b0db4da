package resolver

import (
	"github.com/graphql-go/graphql"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/sqltype"
)

// pageType builds the envelope type for an entity's paged query field.
func (r *Resolver) pageType(entity *metamodel.Entity) *graphql.Object {
	typeName := entity.TypeName + "Page"

	r.mu.RLock()
	cached, ok := r.pageCache[typeName]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: typeName,
		Fields: graphql.Fields{
			r.names.Records: &graphql.Field{
				Type: graphql.NewList(r.entityType(entity)),
			},
			r.names.Total: &graphql.Field{
				Type: graphql.Int,
			},
			r.names.Pages: &graphql.Field{
				Type: graphql.Int,
			},
		},
	})

	r.mu.Lock()
	if cached, ok := r.pageCache[typeName]; ok {
		r.mu.Unlock()
		return cached
	}
	r.pageCache[typeName] = pageType
	r.mu.Unlock()
	return pageType
}

// entityType builds the GraphQL object type for an entity. Fields are
// built lazily so circular relationship references resolve.
func (r *Resolver) entityType(entity *metamodel.Entity) *graphql.Object {
	r.mu.RLock()
	cached, ok := r.typeCache[entity.TypeName]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	objType := graphql.NewObject(graphql.ObjectConfig{
		Name: entity.TypeName,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return r.entityFields(entity)
		}),
	})

	// Cache before building fields so circular references find it.
	r.mu.Lock()
	if cached, ok := r.typeCache[entity.TypeName]; ok {
		r.mu.Unlock()
		return cached
	}
	r.typeCache[entity.TypeName] = objType
	r.mu.Unlock()
	return objType
}

func (r *Resolver) entityFields(entity *metamodel.Entity) graphql.Fields {
	fields := graphql.Fields{}

	for i := range entity.Attributes {
		attr := &entity.Attributes[i]
		fieldType := scalarType(attr.Kind)
		if !attr.IsNullable {
			fieldType = graphql.NewNonNull(fieldType)
		}
		fields[attr.FieldName] = &graphql.Field{
			Type: fieldType,
		}
	}

	for i := range entity.Relationships {
		rel := &entity.Relationships[i]
		remote, ok := r.model.EntityByTable(rel.RemoteTable)
		if !ok {
			continue
		}
		if rel.IsManyToOne {
			fields[rel.FieldName] = &graphql.Field{
				Type:    r.entityType(remote),
				Resolve: r.makeManyToOneResolver(entity, rel),
			}
		} else {
			fields[rel.FieldName] = &graphql.Field{
				Type:    graphql.NewList(r.entityType(remote)),
				Resolve: r.makeOneToManyResolver(entity, rel),
			}
		}
	}

	return fields
}

// pagedQueryArgs builds the argument set for an entity's paged query
// field: the page window, the distinct toggle, the where tree, and one
// equality argument per scalar attribute.
func (r *Resolver) pagedQueryArgs(entity *metamodel.Entity) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		r.names.Page: &graphql.ArgumentConfig{
			Type:        r.pageInputType(),
			Description: "Pagination window (1-based page start and page size)",
		},
		r.names.Distinct: &graphql.ArgumentConfig{
			Type:        graphql.Boolean,
			Description: "Deduplicate fetched records",
		},
		r.names.Where: &graphql.ArgumentConfig{
			Type: r.whereInput(entity),
		},
	}

	for i := range entity.Attributes {
		attr := &entity.Attributes[i]
		if _, taken := args[attr.FieldName]; taken {
			continue
		}
		args[attr.FieldName] = &graphql.ArgumentConfig{
			Type: scalarInputType(attr.Kind),
		}
	}

	return args
}

func (r *Resolver) pageInputType() *graphql.InputObject {
	r.mu.RLock()
	cached := r.pageInput
	r.mu.RUnlock()
	if cached != nil {
		return cached
	}

	pageInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			r.names.PageStart: &graphql.InputObjectFieldConfig{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "1-based page number",
			},
			r.names.PageLimit: &graphql.InputObjectFieldConfig{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "Page size",
			},
		},
	})

	r.mu.Lock()
	if r.pageInput == nil {
		r.pageInput = pageInput
	} else {
		pageInput = r.pageInput
	}
	r.mu.Unlock()
	return pageInput
}

// whereInput builds the condition tree input type for an entity. AND, OR,
// and NOT reference the type itself through a thunk.
func (r *Resolver) whereInput(entity *metamodel.Entity) *graphql.InputObject {
	typeName := entity.TypeName + "Where"

	r.mu.RLock()
	cached, ok := r.whereCache[typeName]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	fields := graphql.InputObjectConfigFieldMap{}
	for i := range entity.Attributes {
		attr := &entity.Attributes[i]
		if attr.Kind == sqltype.KindJSON {
			continue
		}
		fields[attr.FieldName] = &graphql.InputObjectFieldConfig{
			Type: r.filterInputType(attr.Kind),
		}
	}

	var inputObj *graphql.InputObject
	inputObj = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: typeName,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields["AND"] = &graphql.InputObjectFieldConfig{
				Type: graphql.NewList(graphql.NewNonNull(inputObj)),
			}
			fields["OR"] = &graphql.InputObjectFieldConfig{
				Type: graphql.NewList(graphql.NewNonNull(inputObj)),
			}
			fields["NOT"] = &graphql.InputObjectFieldConfig{
				Type: inputObj,
			}
			for i := range entity.Relationships {
				rel := &entity.Relationships[i]
				remote, ok := r.model.EntityByTable(rel.RemoteTable)
				if !ok {
					continue
				}
				fields[rel.FieldName] = &graphql.InputObjectFieldConfig{
					Type: r.relationFilterInput(remote, rel.IsManyToOne),
				}
			}
			return fields
		}),
	})

	r.mu.Lock()
	if cached, ok := r.whereCache[typeName]; ok {
		r.mu.Unlock()
		return cached
	}
	r.whereCache[typeName] = inputObj
	r.mu.Unlock()
	return inputObj
}

// relationFilterInput builds the filter input for an association field
// inside a where tree. Many-to-one supports is/isNull, collections
// support some/none.
func (r *Resolver) relationFilterInput(remote *metamodel.Entity, manyToOne bool) *graphql.InputObject {
	var typeName string
	if manyToOne {
		typeName = remote.TypeName + "RefFilter"
	} else {
		typeName = remote.TypeName + "ManyFilter"
	}

	r.mu.RLock()
	cached, ok := r.relFilterCache[typeName]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	var fields graphql.InputObjectConfigFieldMap
	if manyToOne {
		fields = graphql.InputObjectConfigFieldMap{
			"is": &graphql.InputObjectFieldConfig{
				Type: r.whereInput(remote),
			},
			"isNull": &graphql.InputObjectFieldConfig{
				Type: graphql.Boolean,
			},
		}
	} else {
		fields = graphql.InputObjectConfigFieldMap{
			"some": &graphql.InputObjectFieldConfig{
				Type: r.whereInput(remote),
			},
			"none": &graphql.InputObjectFieldConfig{
				Type: r.whereInput(remote),
			},
		}
	}

	filterType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   typeName,
		Fields: fields,
	})

	r.mu.Lock()
	if cached, ok := r.relFilterCache[typeName]; ok {
		r.mu.Unlock()
		return cached
	}
	r.relFilterCache[typeName] = filterType
	r.mu.Unlock()
	return filterType
}

func (r *Resolver) filterInputType(kind sqltype.Kind) *graphql.InputObject {
	filterName := kind.FilterTypeName()

	r.mu.RLock()
	cached, ok := r.filterCache[filterName]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	var filterType *graphql.InputObject
	switch filterName {
	case "IntFilter":
		filterType = orderedFilterInput("IntFilter", graphql.Int)
	case "FloatFilter":
		filterType = orderedFilterInput("FloatFilter", graphql.Float)
	case "StringFilter":
		filterType = stringFilterInput()
	case "BooleanFilter":
		filterType = graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "BooleanFilter",
			Fields: graphql.InputObjectConfigFieldMap{
				"eq":     &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
				"ne":     &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
				"isNull": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			},
		})
	}

	r.mu.Lock()
	if cached, ok := r.filterCache[filterName]; ok {
		r.mu.Unlock()
		return cached
	}
	r.filterCache[filterName] = filterType
	r.mu.Unlock()
	return filterType
}

func orderedFilterInput(name string, scalar graphql.Input) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name,
		Fields: graphql.InputObjectConfigFieldMap{
			"eq":     &graphql.InputObjectFieldConfig{Type: scalar},
			"ne":     &graphql.InputObjectFieldConfig{Type: scalar},
			"lt":     &graphql.InputObjectFieldConfig{Type: scalar},
			"lte":    &graphql.InputObjectFieldConfig{Type: scalar},
			"gt":     &graphql.InputObjectFieldConfig{Type: scalar},
			"gte":    &graphql.InputObjectFieldConfig{Type: scalar},
			"in":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(scalar))},
			"notIn":  &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(scalar))},
			"isNull": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

func stringFilterInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StringFilter",
		Fields: graphql.InputObjectConfigFieldMap{
			"eq":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"ne":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lt":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lte":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gt":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gte":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"in":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"notIn":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"like":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"notLike": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isNull":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

func scalarType(kind sqltype.Kind) graphql.Output {
	switch kind {
	case sqltype.KindInt:
		return graphql.Int
	case sqltype.KindFloat:
		return graphql.Float
	case sqltype.KindBoolean:
		return graphql.Boolean
	default:
		return graphql.String
	}
}

func scalarInputType(kind sqltype.Kind) graphql.Input {
	switch kind {
	case sqltype.KindInt:
		return graphql.Int
	case sqltype.KindFloat:
		return graphql.Float
	case sqltype.KindBoolean:
		return graphql.Boolean
	default:
		return graphql.String
	}
}
