// internal/service/catalog/infrastructure/cel_filter.go
package infrastructure

import (
	"strings"

	"autohub/internal/pkg/apperr"
	"autohub/internal/service/catalog/domain"

	"github.com/google/cel-go/cel"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const (
	defaultProgramCacheSize = 256
	// defaultCostLimit bounds the evaluation cost of one search against one car.
	defaultCostLimit = 10_000
)

// CELFilterCompiler compiles search criteria into a CEL program. Structured
// criteria become clauses over bound q* variables, so user input is never
// spliced into the expression text; only Expr is parsed as CEL.
type CELFilterCompiler struct {
	env       *cel.Env
	programs  *lru.Cache[string, cel.Program]
	cacheSize int
	costLimit uint64
}

type CompilerOption func(*CELFilterCompiler)

// WithProgramCacheSize bounds the number of compiled programs kept around.
func WithProgramCacheSize(n int) CompilerOption {
	return func(c *CELFilterCompiler) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithCostLimit caps the CEL evaluation cost of a single match.
func WithCostLimit(limit uint64) CompilerOption {
	return func(c *CELFilterCompiler) {
		if limit > 0 {
			c.costLimit = limit
		}
	}
}

func NewCELFilterCompiler(opts ...CompilerOption) (*CELFilterCompiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("brand", cel.StringType),
		cel.Variable("model", cel.StringType),
		cel.Variable("variant", cel.StringType),
		cel.Variable("year", cel.IntType),
		cel.Variable("fuelType", cel.StringType),
		cel.Variable("transmission", cel.StringType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("color", cel.StringType),
		cel.Variable("status", cel.StringType),

		cel.Variable("qBrand", cel.StringType),
		cel.Variable("qModel", cel.StringType),
		cel.Variable("qFuelType", cel.StringType),
		cel.Variable("qTransmission", cel.StringType),
		cel.Variable("qStatus", cel.StringType),
		cel.Variable("qMinPrice", cel.DoubleType),
		cel.Variable("qMaxPrice", cel.DoubleType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build cel env")
	}
	c := &CELFilterCompiler{env: env, cacheSize: defaultProgramCacheSize, costLimit: defaultCostLimit}
	for _, opt := range opts {
		opt(c)
	}
	if c.programs, err = lru.New[string, cel.Program](c.cacheSize); err != nil {
		return nil, errors.Wrap(err, "build cel program cache")
	}
	return c, nil
}

// Compile builds the filter for criteria. Programs are cached by expression
// text in a bounded LRU; the bound values travel with the returned filter.
func (c *CELFilterCompiler) Compile(criteria domain.SearchCriteria) (domain.Filter, error) {
	var clauses []string
	params := map[string]any{}
	bind := func(clause, name string, value any) {
		clauses = append(clauses, clause)
		params[name] = value
	}
	if criteria.Brand != "" {
		bind("brand == qBrand", "qBrand", criteria.Brand)
	}
	if criteria.Model != "" {
		bind("model == qModel", "qModel", criteria.Model)
	}
	if criteria.FuelType != "" {
		bind("fuelType == qFuelType", "qFuelType", string(criteria.FuelType))
	}
	if criteria.Transmission != "" {
		bind("transmission == qTransmission", "qTransmission", string(criteria.Transmission))
	}
	if criteria.Status != "" {
		bind("status == qStatus", "qStatus", string(criteria.Status))
	}
	if criteria.MinPrice != nil {
		bind("price >= qMinPrice", "qMinPrice", criteria.MinPrice.InexactFloat64())
	}
	if criteria.MaxPrice != nil {
		bind("price <= qMaxPrice", "qMaxPrice", criteria.MaxPrice.InexactFloat64())
	}
	if expr := strings.TrimSpace(criteria.Expr); expr != "" {
		clauses = append(clauses, "("+expr+")")
	}
	if len(clauses) == 0 {
		clauses = []string{"true"}
	}

	prg, err := c.program(strings.Join(clauses, " && "))
	if err != nil {
		return nil, err
	}
	return &celFilter{prg: prg, params: params}, nil
}

func (c *CELFilterCompiler) program(expr string) (cel.Program, error) {
	if prg, ok := c.programs.Get(expr); ok {
		return prg, nil
	}

	ast, iss := c.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperr.Validation("invalid search expression", map[string]string{"expr": iss.Err().Error()})
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperr.Validation("search expression must be boolean", map[string]string{"expr": "got " + ast.OutputType().String()})
	}
	prg, err := c.env.Program(ast, cel.CostLimit(c.costLimit))
	if err != nil {
		return nil, errors.Wrap(err, "build cel program")
	}
	c.programs.Add(expr, prg)
	return prg, nil
}

type celFilter struct {
	prg    cel.Program
	params map[string]any
}

func (f *celFilter) Match(car *domain.Car) (bool, error) {
	vars := map[string]any{
		"id":           car.ID,
		"brand":        car.Brand,
		"model":        car.Model,
		"variant":      car.Variant,
		"year":         int64(car.Year),
		"fuelType":     string(car.FuelType),
		"transmission": string(car.Transmission),
		"price":        car.Price.InexactFloat64(),
		"color":        car.Color,
		"status":       string(car.Status),
	}
	for k, v := range f.params {
		vars[k] = v
	}
	out, _, err := f.prg.Eval(vars)
	if err != nil {
		return false, apperr.Wrap(err, apperr.KindValidation, "search expression failed to evaluate")
	}
	matched, ok := out.Value().(bool)
	return ok && matched, nil
}
