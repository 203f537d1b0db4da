package predicate

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/sqlutil"
)

// whereState tracks alias allocation across nested relationship subqueries.
type whereState struct {
	model        *metamodel.Model
	aliasCounter int
}

func (s *whereState) nextAlias(prefix string) string {
	normalized := strings.TrimSpace(prefix)
	if normalized == "" {
		normalized = "rel"
	}
	normalized = strings.ReplaceAll(normalized, "`", "")
	normalized = strings.ReplaceAll(normalized, ".", "_")
	s.aliasCounter++
	return fmt.Sprintf("__%s_%d", normalized, s.aliasCounter)
}

// compileWhere turns a where condition tree into a SQL condition. A nil
// result with nil error means the tree held no conditions.
func compileWhere(model *metamodel.Model, entity *metamodel.Entity, alias string, input map[string]interface{}) (sq.Sqlizer, error) {
	if len(input) == 0 {
		return nil, nil
	}
	state := &whereState{model: model}
	return compileCondition(entity, alias, input, state, true)
}

// compileCondition recursively builds conditions with AND/OR/NOT support.
// When alias is non-empty, column names are qualified as alias.column.
func compileCondition(
	entity *metamodel.Entity,
	alias string,
	input map[string]interface{},
	state *whereState,
	allowRelations bool,
) (sq.Sqlizer, error) {
	conditions := []sq.Sqlizer{}
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := input[key]
		switch key {
		case "AND", "OR":
			array, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%s must be an array", key)
			}
			group := []sq.Sqlizer{}
			for _, item := range array {
				itemMap, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("%s array items must be objects", key)
				}
				cond, err := compileCondition(entity, alias, itemMap, state, allowRelations)
				if err != nil {
					return nil, err
				}
				if cond != nil {
					group = append(group, cond)
				}
			}
			if len(group) == 0 {
				continue
			}
			if key == "AND" {
				conditions = append(conditions, sq.And(group))
			} else {
				conditions = append(conditions, sq.Or(group))
			}

		case "NOT":
			itemMap, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("NOT must be an object")
			}
			inner, err := compileCondition(entity, alias, itemMap, state, allowRelations)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				continue
			}
			innerSQL, innerArgs, err := inner.ToSql()
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, sq.Expr("NOT ("+innerSQL+")", innerArgs...))

		default:
			if attr, ok := entity.AttributeByField(key); ok {
				filterMap, ok := value.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("filter for %s must be an object", key)
				}
				attrConditions, err := compileAttributeFilter(attr, alias, filterMap)
				if err != nil {
					return nil, err
				}
				conditions = append(conditions, attrConditions...)
				continue
			}

			rel, ok := entity.RelationshipByField(key)
			if !ok {
				return nil, fmt.Errorf("unknown field: %s", key)
			}
			if !allowRelations {
				return nil, fmt.Errorf("relationship conditions support single hop only (nested relation %s)", key)
			}
			relCond, err := compileRelationshipFilter(entity, alias, rel, key, value, state)
			if err != nil {
				return nil, err
			}
			if relCond != nil {
				conditions = append(conditions, relCond)
			}
		}
	}

	if len(conditions) == 0 {
		return nil, nil
	}
	if len(conditions) == 1 {
		return conditions[0], nil
	}
	return sq.And(conditions), nil
}

// compileAttributeFilter builds conditions for one attribute's operator map.
func compileAttributeFilter(attr *metamodel.Attribute, alias string, filterMap map[string]interface{}) ([]sq.Sqlizer, error) {
	conditions := []sq.Sqlizer{}
	column := sqlutil.Qualify(alias, attr.Column)

	ops := make([]string, 0, len(filterMap))
	for op := range filterMap {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		value := filterMap[op]
		switch op {
		case "eq":
			conditions = append(conditions, sq.Eq{column: value})
		case "ne":
			conditions = append(conditions, sq.NotEq{column: value})
		case "lt":
			conditions = append(conditions, sq.Lt{column: value})
		case "lte":
			conditions = append(conditions, sq.LtOrEq{column: value})
		case "gt":
			conditions = append(conditions, sq.Gt{column: value})
		case "gte":
			conditions = append(conditions, sq.GtOrEq{column: value})
		case "in":
			arr, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("in operator requires an array")
			}
			conditions = append(conditions, sq.Eq{column: arr})
		case "notIn":
			arr, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("notIn operator requires an array")
			}
			conditions = append(conditions, sq.NotEq{column: arr})
		case "like":
			conditions = append(conditions, sq.Like{column: value})
		case "notLike":
			conditions = append(conditions, sq.NotLike{column: value})
		case "isNull":
			boolVal, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("isNull must be a boolean")
			}
			if boolVal {
				conditions = append(conditions, sq.Eq{column: nil})
			} else {
				conditions = append(conditions, sq.NotEq{column: nil})
			}
		default:
			return nil, fmt.Errorf("unknown filter operator: %s", op)
		}
	}

	return conditions, nil
}

// compileRelationshipFilter builds EXISTS conditions for association
// filters. Many-to-one supports is/isNull, one-to-many supports some/none.
func compileRelationshipFilter(
	entity *metamodel.Entity,
	alias string,
	rel *metamodel.Relationship,
	fieldName string,
	value interface{},
	state *whereState,
) (sq.Sqlizer, error) {
	filterMap, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("filter for relationship %s must be an object", fieldName)
	}

	if rel.IsManyToOne {
		for op := range filterMap {
			if op != "is" && op != "isNull" {
				return nil, fmt.Errorf("unknown relationship filter operator: %s", op)
			}
		}
		_, hasIs := filterMap["is"]
		_, hasIsNull := filterMap["isNull"]
		if hasIs && hasIsNull {
			return nil, fmt.Errorf("relationship filter %s cannot use both is and isNull", fieldName)
		}
		if rawIs, ok := filterMap["is"]; ok {
			isWhere, ok := rawIs.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("relationship filter %s.is must be an object", fieldName)
			}
			return existsCondition(entity, alias, rel, isWhere, true, state)
		}
		if rawIsNull, ok := filterMap["isNull"]; ok {
			isNull, ok := rawIsNull.(bool)
			if !ok {
				return nil, fmt.Errorf("relationship filter %s.isNull must be a boolean", fieldName)
			}
			return existsCondition(entity, alias, rel, map[string]interface{}{}, !isNull, state)
		}
		return nil, fmt.Errorf("relationship filter %s must include is or isNull", fieldName)
	}

	for op := range filterMap {
		if op != "some" && op != "none" {
			return nil, fmt.Errorf("unknown relationship filter operator: %s", op)
		}
	}
	conditions := []sq.Sqlizer{}
	if rawSome, ok := filterMap["some"]; ok {
		someWhere, ok := rawSome.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("relationship filter %s.some must be an object", fieldName)
		}
		cond, err := existsCondition(entity, alias, rel, someWhere, true, state)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	if rawNone, ok := filterMap["none"]; ok {
		noneWhere, ok := rawNone.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("relationship filter %s.none must be an object", fieldName)
		}
		cond, err := existsCondition(entity, alias, rel, noneWhere, false, state)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	if len(conditions) == 0 {
		return nil, fmt.Errorf("relationship filter %s must include some or none", fieldName)
	}
	if len(conditions) == 1 {
		return conditions[0], nil
	}
	return sq.And(conditions), nil
}

// existsCondition builds a correlated (NOT) EXISTS subquery against the
// relationship's remote entity.
func existsCondition(
	entity *metamodel.Entity,
	outerAlias string,
	rel *metamodel.Relationship,
	nestedWhere map[string]interface{},
	shouldExist bool,
	state *whereState,
) (sq.Sqlizer, error) {
	remote, ok := state.model.EntityByTable(rel.RemoteTable)
	if !ok {
		return nil, fmt.Errorf("relationship table not found: %s", rel.RemoteTable)
	}
	if len(rel.LocalColumns) == 0 || len(rel.LocalColumns) != len(rel.RemoteColumns) {
		return nil, fmt.Errorf("relationship mapping width mismatch for %s", rel.FieldName)
	}

	// Root-level conditions still need deterministic correlation targets.
	outerRef := outerAlias
	if outerRef == "" {
		outerRef = entity.Table
	}
	remoteAlias := state.nextAlias(remote.Table)

	builder := sq.Select("1").
		From(sqlutil.QuoteIdentifier(remote.Table) + " AS " + sqlutil.QuoteIdentifier(remoteAlias))
	for i := range rel.LocalColumns {
		builder = builder.Where(sq.Expr(fmt.Sprintf(
			"%s = %s",
			sqlutil.Qualify(remoteAlias, rel.RemoteColumns[i]),
			sqlutil.Qualify(outerRef, rel.LocalColumns[i]),
		)))
	}
	if len(nestedWhere) > 0 {
		nested, err := compileCondition(remote, remoteAlias, nestedWhere, state, false)
		if err != nil {
			return nil, err
		}
		if nested != nil {
			builder = builder.Where(nested)
		}
	}

	subquery, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, err
	}
	prefix := "EXISTS"
	if !shouldExist {
		prefix = "NOT EXISTS"
	}
	return sq.Expr(fmt.Sprintf("%s (%s)", prefix, subquery), args...), nil
}
