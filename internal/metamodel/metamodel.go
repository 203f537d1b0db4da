// Package metamodel builds an entity metamodel from database schema
// metadata. Entities, attributes, and relationships carry both their SQL
// names and their resolved GraphQL names, so query resolution can map
// selection fields and arguments back to columns and joins.
package metamodel

import (
	"fmt"

	"graphql-pagequery/internal/sqltype"
)

// Attribute is a scalar field of an entity, backed by a table column.
type Attribute struct {
	// Column is the SQL column name.
	Column string
	// FieldName is the GraphQL field name (camelCase).
	FieldName    string
	DataType     string
	Kind         sqltype.Kind
	IsNullable   bool
	IsPrimaryKey bool
}

// Relationship is an association to another entity derived from a
// foreign key, in either direction.
type Relationship struct {
	// FieldName is the GraphQL field name for the association.
	FieldName string
	// RemoteTable is the table backing the related entity.
	RemoteTable string
	// LocalColumns and RemoteColumns are positional join column pairs.
	LocalColumns  []string
	RemoteColumns []string
	IsManyToOne   bool
	IsOneToMany   bool
}

// Entity is a queryable table with its resolved GraphQL identity.
type Entity struct {
	// Table is the SQL table name.
	Table string
	// TypeName is the GraphQL object type name (PascalCase singular).
	TypeName string
	// QueryFieldName is the root query field name (camelCase plural).
	QueryFieldName string
	Attributes     []Attribute
	Relationships  []Relationship

	byField  map[string]*Attribute
	relField map[string]*Relationship
}

// AttributeByField returns the attribute with the given GraphQL field name.
func (e *Entity) AttributeByField(name string) (*Attribute, bool) {
	a, ok := e.byField[name]
	return a, ok
}

// RelationshipByField returns the relationship with the given GraphQL field name.
func (e *Entity) RelationshipByField(name string) (*Relationship, bool) {
	r, ok := e.relField[name]
	return r, ok
}

// PrimaryKey returns the primary key attributes in key order.
func (e *Entity) PrimaryKey() []Attribute {
	var pk []Attribute
	for _, a := range e.Attributes {
		if a.IsPrimaryKey {
			pk = append(pk, a)
		}
	}
	return pk
}

func (e *Entity) index() {
	e.byField = make(map[string]*Attribute, len(e.Attributes))
	for i := range e.Attributes {
		e.byField[e.Attributes[i].FieldName] = &e.Attributes[i]
	}
	e.relField = make(map[string]*Relationship, len(e.Relationships))
	for i := range e.Relationships {
		e.relField[e.Relationships[i].FieldName] = &e.Relationships[i]
	}
}

// Model is the set of entities discovered in a database.
type Model struct {
	Database string
	Entities []Entity

	byTable map[string]*Entity
}

// NewModel builds an indexed model from pre-populated entities. Load is
// the usual entry point; this supports constructing models directly.
func NewModel(database string, entities ...Entity) (*Model, error) {
	m := &Model{Database: database, Entities: entities}
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

// EntityByTable returns the entity backed by the given table.
func (m *Model) EntityByTable(table string) (*Entity, bool) {
	e, ok := m.byTable[table]
	return e, ok
}

func (m *Model) index() error {
	m.byTable = make(map[string]*Entity, len(m.Entities))
	for i := range m.Entities {
		e := &m.Entities[i]
		if _, dup := m.byTable[e.Table]; dup {
			return fmt.Errorf("duplicate entity table %q", e.Table)
		}
		e.index()
		m.byTable[e.Table] = e
	}
	return nil
}
