// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the Model[T], which represents the
// entry point for working with a specific schema (entity). A Model handles
// persistence, queries, relations, hooks, soft-deletes, and event emission.
package core

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Model represents a repository-like abstraction for a schema T.
//
// It wraps a SchemaMeta[T] and a Driver, exposing high-level operations such
// as Create, Update, Delete, FindOne, FindMany, FindPage, and Count. Models
// are generic and type-safe, ensuring that all operations are tied to a
// specific entity type. Every operation passes through the global middleware
// chain before reaching the driver.
type Model[T any] struct {
	schema *SchemaMeta[T]
	driver Driver
}

// NewModel creates a Model bound to the given schema and driver.
func NewModel[T any](schema *SchemaMeta[T], driver Driver) *Model[T] {
	return &Model[T]{schema: schema, driver: driver}
}

// LoadRelation populates the given relation fields of an already-loaded
// document. Each argument must be a pointer to a relation field of doc.
func (m *Model[T]) LoadRelation(ctx context.Context, doc *T, fieldPtrs ...any) error {
	value := reflect.ValueOf(doc).Elem()

	for _, ptr := range fieldPtrs {
		rv := reflect.ValueOf(ptr)
		if rv.Kind() != reflect.Pointer {
			return fmt.Errorf("LoadRelation: argument must be a pointer to a field")
		}

		// resolve which field of T this pointer refers to
		fieldName := ""
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if field.Addr().Interface() == ptr {
				fieldName = value.Type().Field(i).Name
				break
			}
		}
		if fieldName == "" {
			return fmt.Errorf("LoadRelation: no field found for pointer %v", ptr)
		}

		if err := m.loadRelationList(ctx, doc, []string{fieldName}); err != nil {
			return err
		}
	}
	return nil
}

// withSoftDelete derives an effective Where that accounts for the schema's
// deletedAt column, honoring the WithDeleted/OnlyDeleted toggles.
func (m *Model[T]) withSoftDelete(where *Where) *Where {
	if where == nil || m.schema.deletedAtField == nil {
		return where
	}
	eff := *where // shallow copy
	col := m.schema.deletedAtField.DatabaseColumnName

	if where.OnlyDeleted {
		eff.Condition = foldConditionsAnd(
			where.Condition,
			(&Condition{FieldName: col}).Nil().Not(),
		)
		return &eff
	}
	if !where.WithDeleted {
		eff.Condition = foldConditionsAnd(
			where.Condition,
			(&Condition{FieldName: col}).Nil(),
		)
	}
	return &eff
}

func (m *Model[T]) loadRelationList(ctx context.Context, doc *T, nameList []string) error {
	value := reflect.ValueOf(doc).Elem()

	for _, relationName := range nameList {
		relation := m.schema.findRelation(relationName)
		if relation == nil {
			continue
		}

		field := value.FieldByName(relation.FieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		switch relation.Kind {
		case OneToOne:
			localVal := value.FieldByName(relation.LocalKey).Interface()
			qb := NewQuery(relation.RefSchema)
			qb.Filter(func(_ Filter[any]) []*Condition {
				return []*Condition{
					(&Condition{FieldName: relation.ForeignKey}).Eq(localVal),
				}
			})
			model := NewModel(relation.RefSchema, m.driver)
			result, err := model.findOneInternal(ctx, qb)
			if err != nil {
				return err
			}
			if result != nil {
				field.Set(reflect.ValueOf(result))
			}

		case OneToMany:
			localVal := value.FieldByName(relation.LocalKey).Interface()
			qb := NewQuery(relation.RefSchema)
			qb.Filter(func(_ Filter[any]) []*Condition {
				return []*Condition{
					(&Condition{FieldName: relation.ForeignKey}).Eq(localVal),
				}
			})
			model := NewModel(relation.RefSchema, m.driver)
			results, err := model.findManyInternal(ctx, qb)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(results))

		case ManyToMany:
			localVal := value.FieldByName(relation.LocalKey).Interface()

			// 1) fetch join rows where JoinLocalKey = localVal
			joinQuery := &Where{
				Condition: (&Condition{FieldName: relation.JoinLocalKey}).Eq(localVal),
			}
			rawJoin, err := m.driver.FindMany(ctx, &SchemaCore{Collection: relation.JoinTable}, joinQuery)
			if err != nil {
				return err
			}
			joinRows, _ := rawJoin.([]map[string]any)

			// 2) extract the foreign IDs
			foreignIDs := make([]any, 0, len(joinRows))
			for _, jr := range joinRows {
				foreignIDs = append(foreignIDs, jr[relation.JoinForeignKey])
			}

			// 3) load the foreign entities with IN
			if len(foreignIDs) > 0 {
				qb := NewQuery(relation.RefSchema)
				qb.Filter(func(_ Filter[any]) []*Condition {
					return []*Condition{
						(&Condition{FieldName: relation.ForeignKey}).In(foreignIDs...),
					}
				})
				model := NewModel(relation.RefSchema, m.driver)
				results, err := model.findManyInternal(ctx, qb)
				if err != nil {
					return err
				}
				field.Set(reflect.ValueOf(results))
			}
		}
	}

	return nil
}

func (m *Model[T]) runPre(hook PreHook, doc *T) error {
	if fnList, ok := m.schema.PreHookList[hook]; ok {
		for _, fn := range fnList {
			if err := fn(doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Model[T]) runPost(hook PostHook, doc *T) error {
	if fnList, ok := m.schema.PostHookList[hook]; ok {
		for _, fn := range fnList {
			if err := fn(doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// fillPrimaryKey assigns a generated UUID to an empty string primary key.
func (m *Model[T]) fillPrimaryKey(doc *T) {
	pk := m.schema.PrimaryField()
	if pk == nil || pk.Type == nil || pk.Type.Kind() != reflect.String {
		return
	}
	field := reflect.ValueOf(doc).Elem().FieldByName(pk.StructFieldName)
	if field.IsValid() && field.CanSet() && field.Kind() == reflect.String && field.String() == "" {
		field.SetString(uuid.NewString())
	}
}

// Create persists a new document, filling the primary key and timestamp
// fields, running pre/post insert hooks, and emitting EventInsert.
func (m *Model[T]) Create(ctx context.Context, doc *T) error {
	now := time.Now()
	val := reflect.ValueOf(doc).Elem()

	m.fillPrimaryKey(doc)
	if m.schema.createdAtField != nil {
		f := val.FieldByName(m.schema.createdAtField.StructFieldName)
		setTimeField(f, now)
	}
	if m.schema.updatedAtField != nil {
		f := val.FieldByName(m.schema.updatedAtField.StructFieldName)
		setTimeField(f, now)
	}

	if err := m.runPre(PreInsert, doc); err != nil {
		return err
	}
	payload := InsertPayload[T]{Schema: &m.schema.SchemaCore, Doc: doc}
	err := dispatchOperation(ctx, OperationInsert, payload, func() error {
		return m.driver.Insert(ctx, &m.schema.SchemaCore, doc)
	})
	if err != nil {
		return err
	}
	if err := m.runPost(PostInsert, doc); err != nil {
		return err
	}
	Emit(EventInsert, payload)
	return nil
}

// FindOneQuery is the fluent tail of a single-document lookup, allowing
// relation includes before Run.
type FindOneQuery[T any] struct {
	model           *Model[T]
	query           *Query[T]
	includeNameList []string
}

// FindOne starts a single-document lookup for the given query.
func (m *Model[T]) FindOne(ctx context.Context, query *Query[T]) *FindOneQuery[T] {
	return &FindOneQuery[T]{model: m, query: query}
}

// Include adds a relation to load alongside the document. The selector must
// return a pointer to the relation field (converted to any).
//
// Example:
//
//	.Include(func(u *User) any { return &u.RoleList })
func (q *FindOneQuery[T]) Include(selector func(*T) any) *FindOneQuery[T] {
	q.includeNameList = append(q.includeNameList, fieldNameFromSelectorFor[T](selector))
	return q
}

// Run executes the lookup.
func (q *FindOneQuery[T]) Run(ctx context.Context) (*T, error) {
	return q.model.findOneInternal(ctx, q.query, q.includeNameList...)
}

func (m *Model[T]) findOneInternal(ctx context.Context, qb *Query[T], relationList ...string) (*T, error) {
	var zero T
	_ = m.runPre(PreFind, &zero)

	// derive a copy with soft delete applied
	where := m.withSoftDelete(qb.where)

	find := &FindPayload{Schema: &m.schema.SchemaCore, Where: where, Single: true}
	err := dispatchOperation(ctx, OperationFind, find, func() error {
		raw, derr := m.driver.FindOne(ctx, &m.schema.SchemaCore, where)
		find.Result = raw
		return derr
	})
	if err != nil || find.Result == nil {
		return nil, err
	}

	row, ok := find.Result.(map[string]any)
	if !ok {
		return nil, nil
	}

	value := new(T)
	if err := mapToStruct(row, value); err != nil {
		return nil, err
	}

	if err := m.loadRelationList(ctx, value, relationList); err != nil {
		return nil, err
	}

	_ = m.runPost(PostFind, value)
	Emit(EventFind, FindOnePayload[T]{Schema: &m.schema.SchemaCore, Where: where, Doc: value})
	return value, nil
}

// FindManyQuery is the fluent tail of a list lookup.
type FindManyQuery[T any] struct {
	model        *Model[T]
	qb           *Query[T]
	includeNames []string
}

// FindMany starts a list lookup for the given query.
func (m *Model[T]) FindMany(ctx context.Context, qb *Query[T]) *FindManyQuery[T] {
	return &FindManyQuery[T]{model: m, qb: qb}
}

// Include adds a relation to load for each returned document.
func (q *FindManyQuery[T]) Include(selector func(*T) any) *FindManyQuery[T] {
	q.includeNames = append(q.includeNames, fieldNameFromSelectorFor[T](selector))
	return q
}

// Run executes the lookup.
func (q *FindManyQuery[T]) Run(ctx context.Context) ([]T, error) {
	return q.model.findManyInternal(ctx, q.qb, q.includeNames...)
}

func (m *Model[T]) findManyInternal(ctx context.Context, qb *Query[T], relationList ...string) ([]T, error) {
	var zero T
	_ = m.runPre(PreFind, &zero)

	// derive a copy with soft delete applied
	where := m.withSoftDelete(qb.where)

	find := &FindPayload{Schema: &m.schema.SchemaCore, Where: where, Single: false}
	err := dispatchOperation(ctx, OperationFind, find, func() error {
		raw, derr := m.driver.FindMany(ctx, &m.schema.SchemaCore, where)
		find.Result = raw
		return derr
	})
	if err != nil || find.Result == nil {
		return nil, err
	}

	rows, ok := find.Result.([]map[string]any)
	if !ok {
		return nil, nil
	}

	var results []T
	for _, row := range rows {
		value := new(T)
		if err := mapToStruct(row, value); err != nil {
			return nil, err
		}
		if err := m.loadRelationList(ctx, value, relationList); err != nil {
			return nil, err
		}
		_ = m.runPost(PostFind, value)
		results = append(results, *value)
	}

	Emit(EventFind, FindManyPayload[T]{Schema: &m.schema.SchemaCore, Where: where, DocList: results})
	return results, nil
}

// Page is the result of a paginated list lookup.
type Page[T any] struct {
	Items     []T
	Total     int64
	Page      int
	PerPage   int
	PageCount int
}

// FindPage runs a counted, paginated list lookup: it counts the documents
// matching the query, then fetches the requested one-based page.
func (m *Model[T]) FindPage(ctx context.Context, qb *Query[T], page, perPage int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total, err := m.Count(ctx, qb)
	if err != nil {
		return nil, err
	}

	qb.Page(page, perPage)
	items, err := m.findManyInternal(ctx, qb)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:     items,
		Total:     total,
		Page:      page,
		PerPage:   perPage,
		PageCount: PageCount(total, perPage),
	}, nil
}

// Update modifies documents matching the condition. The changes are
// sanitized through StripEmpty so that holes in partial payloads do not
// blank out stored values, and the updatedAt column is refreshed when the
// schema declares one.
func (m *Model[T]) Update(ctx context.Context, condition *Condition, changes Changes) error {
	changes = StripEmpty(changes)
	if m.schema.updatedAtField != nil {
		changes[m.schema.updatedAtField.DatabaseColumnName] = time.Now()
	}

	payload := UpdatePayload{Schema: &m.schema.SchemaCore, Condition: condition, Changes: changes}
	err := dispatchOperation(ctx, OperationUpdate, payload, func() error {
		return m.driver.Update(ctx, &m.schema.SchemaCore, condition, changes)
	})
	if err != nil {
		return err
	}
	Emit(EventUpdate, payload)
	return nil
}

// Delete removes documents matching the condition. When the schema declares
// a deletedAt column the delete is soft: the column is stamped instead.
func (m *Model[T]) Delete(ctx context.Context, condition *Condition) error {
	if m.schema.deletedAtField != nil {
		changes := Changes{m.schema.deletedAtField.DatabaseColumnName: time.Now()}
		payload := UpdatePayload{Schema: &m.schema.SchemaCore, Condition: condition, Changes: changes}
		err := dispatchOperation(ctx, OperationUpdate, payload, func() error {
			return m.driver.Update(ctx, &m.schema.SchemaCore, condition, changes)
		})
		if err != nil {
			return err
		}
		Emit(EventUpdate, payload)
		return nil
	}

	payload := DeletePayload{Schema: &m.schema.SchemaCore, Condition: condition}
	err := dispatchOperation(ctx, OperationDelete, payload, func() error {
		return m.driver.Delete(ctx, &m.schema.SchemaCore, condition)
	})
	if err != nil {
		return err
	}
	Emit(EventDelete, payload)
	return nil
}

// Count returns the number of documents matching the query.
func (m *Model[T]) Count(ctx context.Context, qb *Query[T]) (int64, error) {
	// use a copy with soft delete applied
	where := m.withSoftDelete(qb.where)
	var condition *Condition
	if where != nil {
		condition = where.Condition
	}
	return m.driver.Count(ctx, &m.schema.SchemaCore, condition)
}
