package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// modelColumn maps one exported `db`-tagged field to its column.
type modelColumn struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []modelColumn

func modelColumns(typ reflect.Type) []modelColumn {
	if cached, ok := columnCache.Load(typ); ok {
		return cached.([]modelColumn)
	}

	var cols []modelColumn
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, modelColumn{name: name, index: field.Index})
	}

	actual, _ := columnCache.LoadOrStore(typ, cols)
	return actual.([]modelColumn)
}

func structValue(model any) (reflect.Value, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct, got %s", v.Kind())
	}
	return v, nil
}

// InsertModel builds a single-row insert from a struct's `db` tags.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix)
}

// InsertModels builds a multi-row insert. Every model must share one type.
func InsertModels(table string, models []any, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	builder := InsertInto(table).Suffix(suffix)
	var rowType reflect.Type
	var cols []modelColumn
	for i, model := range models {
		v, err := structValue(model)
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", i, err)
		}

		if rowType == nil {
			rowType = v.Type()
			cols = modelColumns(rowType)
			if len(cols) == 0 {
				return "", nil, fmt.Errorf("model %d: %s has no db columns", i, rowType)
			}
			names := make([]string, len(cols))
			for j, c := range cols {
				names[j] = c.name
			}
			builder.Columns(names...)
		} else if v.Type() != rowType {
			return "", nil, fmt.Errorf("model %d has type %s, expected %s", i, v.Type(), rowType)
		}

		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = v.FieldByIndex(c.index).Interface()
		}
		builder.Values(row...)
	}
	return builder.ToSQL()
}
