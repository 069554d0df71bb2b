package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"storefront/internal/events"
	"storefront/internal/models"
)

// ListQuery carries the pagination, filtering and preload options of a list call.
type ListQuery struct {
	Page     int
	Limit    int
	Filters  map[string]string
	Sort     string
	Order    string
	Includes []string
	Excludes []string
}

// BaseService interface defines common CRUD operations
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id string, includes ...string) (*T, error)
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	Update(ctx context.Context, id string, entity *T, omit ...string) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, model interface{}, id string) (bool, error)
}

// BaseServiceImpl implements BaseService
type BaseServiceImpl[T any] struct {
	db     *gorm.DB
	schema *schema.Schema
	// columns maps json names and db names to db names
	columns   map[string]*schema.Field
	relations map[string]string
}

var schemaCache = &sync.Map{}

// NewBaseService creates a new base service
func NewBaseService[T any](db *gorm.DB) BaseService[T] {
	s, err := schema.Parse(new(T), schemaCache, db.NamingStrategy)
	if err != nil {
		panic(fmt.Sprintf("services: cannot parse schema for %T: %v", *new(T), err))
	}

	columns := make(map[string]*schema.Field)
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		columns[f.DBName] = f
		if jsonName := strings.Split(f.Tag.Get("json"), ",")[0]; jsonName != "" && jsonName != "-" {
			columns[jsonName] = f
		}
	}
	relations := make(map[string]string)
	for name := range s.Relationships.Relations {
		relations[strings.ToLower(name)] = name
	}

	return &BaseServiceImpl[T]{
		db:        db,
		schema:    s,
		columns:   columns,
		relations: relations,
	}
}

// IsValidID reports whether id has the shape of a primary key.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *BaseServiceImpl[T]) event(action string) string {
	return events.Name(s.schema.Table, action)
}

func (s *BaseServiceImpl[T]) notFound() error {
	return &NotFoundError{Resource: singular(s.schema.Table)}
}

// singular turns a table name into a resource label: "categories" becomes "category".
func singular(table string) string {
	label := strings.ReplaceAll(table, "_", " ")
	switch {
	case strings.HasSuffix(label, "ies"):
		return strings.TrimSuffix(label, "ies") + "y"
	case strings.HasSuffix(label, "ses"):
		return strings.TrimSuffix(label, "es")
	default:
		return strings.TrimSuffix(label, "s")
	}
}

func liveRows(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// applyIncludes adds preload statements for known relations; nested paths like "items.product" are allowed.
// Every segment of a path is preloaded on its own so soft-deleted rows stay hidden at each level.
func (s *BaseServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	seen := make(map[string]bool)
	for _, include := range includes {
		parts := strings.Split(strings.TrimSpace(include), ".")
		root, ok := s.relations[strings.ToLower(parts[0])]
		if !ok {
			continue
		}
		parts[0] = root
		for i := 1; i < len(parts); i++ {
			if parts[i] == "" {
				parts = parts[:i]
				break
			}
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
		for i := range parts {
			path := strings.Join(parts[:i+1], ".")
			if seen[path] {
				continue
			}
			seen[path] = true
			query = query.Preload(path, liveRows)
		}
	}
	return query
}

func (s *BaseServiceImpl[T]) applyExcludes(query *gorm.DB, excludes []string) *gorm.DB {
	var omit []string
	for _, name := range excludes {
		if f, ok := s.columns[name]; ok && !f.PrimaryKey {
			omit = append(omit, f.DBName)
		}
	}
	if len(omit) > 0 {
		query = query.Omit(omit...)
	}
	return query
}

func (s *BaseServiceImpl[T]) filterValue(f *schema.Field, raw string) (interface{}, bool) {
	switch f.DataType {
	case schema.Bool:
		v, err := strconv.ParseBool(raw)
		return v, err == nil
	case schema.Int, schema.Uint:
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	case schema.Float:
		v, err := strconv.ParseFloat(raw, 64)
		return v, err == nil
	default:
		return raw, true
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewValidationError("", "a record with the same unique value already exists")
	}
	return err
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return translate(err)
	}

	events.Emit(s.event("created"), entity)
	return nil
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id string, includes ...string) (*T, error) {
	if !IsValidID(id) {
		return nil, s.notFound()
	}

	var entity T
	query := s.applyIncludes(s.db.WithContext(ctx), includes...)
	if err := query.Where("is_deleted = ?", false).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound()
		}
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(new(T)).Where("is_deleted = ?", false)

	for key, raw := range q.Filters {
		f, ok := s.columns[key]
		if !ok {
			continue
		}
		if value, ok := s.filterValue(f, raw); ok {
			query = query.Where(clause.Eq{Column: clause.Column{Name: f.DBName}, Value: value})
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn := "created_at"
	if f, ok := s.columns[q.Sort]; ok {
		sortColumn = f.DBName
	}
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sortColumn},
		Desc:   !strings.EqualFold(q.Order, "asc"),
	})

	if q.Page > 0 && q.Limit > 0 {
		query = query.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
	}

	query = s.applyIncludes(query, q.Includes...)
	query = s.applyExcludes(query, q.Excludes)

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// Update writes every column of entity except the immutable ones and omit.
func (s *BaseServiceImpl[T]) Update(ctx context.Context, id string, entity *T, omit ...string) error {
	if !IsValidID(id) {
		return s.notFound()
	}

	columns := append(append([]string{}, models.ImmutableColumns...), omit...)
	columns = append(columns, clause.Associations)

	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Select("*").Omit(columns...).
		Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return s.notFound()
	}

	var fresh T
	if err := s.db.WithContext(ctx).First(&fresh, "id = ?", id).Error; err != nil {
		return err
	}
	*entity = fresh

	events.Emit(s.event("updated"), entity)
	return nil
}

// Delete soft-deletes the row. Deleting an absent or already deleted id is not an error.
func (s *BaseServiceImpl[T]) Delete(ctx context.Context, id string) error {
	if !IsValidID(id) {
		return nil
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"deleted_at": &now, "is_deleted": true})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected > 0 {
		events.Emit(s.event("deleted"), id)
	}
	return nil
}

// Exists reports whether a live row of model has the given id.
func (s *BaseServiceImpl[T]) Exists(ctx context.Context, model interface{}, id string) (bool, error) {
	return Exists(ctx, s.db, model, id)
}

// Exists reports whether a live row of model has the given id.
func Exists(ctx context.Context, db *gorm.DB, model interface{}, id string) (bool, error) {
	if !IsValidID(id) {
		return false, nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ? AND is_deleted = ?", id, false).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
