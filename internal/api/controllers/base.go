package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Public marks a verb that needs no session.
const Public models.UserRole = ""

// Policy is the role required to read and to write a resource.
type Policy struct {
	Read  models.UserRole
	Write models.UserRole
}

// Reference is a foreign key that must point at a live row before a write.
type Reference[T any] struct {
	Field   string
	Model   interface{}
	Value   func(*T) string
	Message string
}

func (r Reference[T]) message() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s does not reference an existing record", r.Field)
}

// Options configures a BaseController.
type Options[T any] struct {
	Policy     Policy
	References []Reference[T]
	// Includes lists the relation paths a reader may preload, e.g. "items.product".
	// Anything else asked for in ?include= is ignored.
	Includes []string
	// BeforeCreate runs after every check and right before the insert.
	BeforeCreate func(ctx echo.Context, entity *T) error
	// BeforeUpdate runs right before the update and returns extra columns to leave untouched.
	BeforeUpdate func(ctx echo.Context, entity *T) ([]string, error)
}

// BaseController provides generic CRUD operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
	opts    Options[T]
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T], opts Options[T]) *BaseController[T] {
	return &BaseController[T]{
		service: service,
		opts:    opts,
	}
}

// parseList splits a comma separated query parameter
func parseList(ctx echo.Context, name string) []string {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// includes keeps the requested relation paths that the resource allows.
func (c *BaseController[T]) includes(ctx echo.Context) []string {
	var out []string
	for _, want := range parseList(ctx, "include") {
		for _, allowed := range c.opts.Includes {
			if strings.EqualFold(want, allowed) {
				out = append(out, allowed)
				break
			}
		}
	}
	return out
}

var reservedParams = map[string]bool{
	"page": true, "limit": true, "include": true, "exclude": true, "sort": true, "order": true,
}

func authorize(ctx echo.Context, role models.UserRole) error {
	if role == Public {
		return nil
	}
	return middleware.Authorize(middleware.CurrentSession(ctx), role)
}

// prepare runs the body half of the pipeline: decode, normalize, validate, authorize.
func (c *BaseController[T]) prepare(ctx echo.Context, entity *T) error {
	if err := ctx.Bind(entity); err != nil {
		return httperr.InvalidBody
	}
	if n, ok := any(entity).(models.Normalizer); ok {
		n.Normalize()
	}
	if err := ctx.Validate(entity); err != nil {
		return err
	}
	return authorize(ctx, c.opts.Policy.Write)
}

func (c *BaseController[T]) checkReferences(ctx echo.Context, entity *T) error {
	for _, ref := range c.opts.References {
		id := ref.Value(entity)
		if id == "" {
			continue
		}
		ok, err := c.service.Exists(ctx.Request().Context(), ref.Model, id)
		if err != nil {
			return err
		}
		if !ok {
			return services.NewValidationError(ref.Field, ref.message())
		}
	}
	return nil
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := c.prepare(ctx, &entity); err != nil {
		return err
	}
	if r, ok := any(&entity).(interface{ ResetIdentity() }); ok {
		r.ResetIdentity()
	}

	if err := c.checkReferences(ctx, &entity); err != nil {
		return err
	}

	if c.opts.BeforeCreate != nil {
		if err := c.opts.BeforeCreate(ctx, &entity); err != nil {
			return err
		}
	}

	if err := c.service.Create(ctx.Request().Context(), &entity); err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	if err := authorize(ctx, c.opts.Policy.Read); err != nil {
		return err
	}

	entity, err := c.service.Get(ctx.Request().Context(), ctx.Param("id"), c.includes(ctx)...)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	if err := authorize(ctx, c.opts.Policy.Read); err != nil {
		return err
	}

	// Parse pagination parameters
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// Parse filters from query parameters
	filters := make(map[string]string)
	for key, values := range ctx.QueryParams() {
		if !reservedParams[key] && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	entities, total, err := c.service.List(ctx.Request().Context(), services.ListQuery{
		Page:     page,
		Limit:    limit,
		Filters:  filters,
		Sort:     ctx.QueryParam("sort"),
		Order:    ctx.QueryParam("order"),
		Includes: c.includes(ctx),
		Excludes: parseList(ctx, "exclude"),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	var entity T
	if err := c.prepare(ctx, &entity); err != nil {
		return err
	}

	if err := c.checkReferences(ctx, &entity); err != nil {
		return err
	}

	var omit []string
	if c.opts.BeforeUpdate != nil {
		var err error
		if omit, err = c.opts.BeforeUpdate(ctx, &entity); err != nil {
			return err
		}
	}

	if err := c.service.Update(ctx.Request().Context(), ctx.Param("id"), &entity, omit...); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	if err := authorize(ctx, c.opts.Policy.Write); err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
