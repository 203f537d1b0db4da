package resolver

import (
	"github.com/graphql-go/graphql/language/ast"

	"graphql-pagequery/internal/planner"
	"graphql-pagequery/internal/qerr"
	"graphql-pagequery/internal/reserved"
)

// selection captures what a paged query field asked for: which envelope
// sections were selected, the pagination window, the effective distinct
// setting, and the remaining arguments with the page argument stripped.
type selection struct {
	WantsRecords bool
	WantsTotal   bool
	WantsPages   bool

	Window   *planner.PageWindow
	Distinct bool

	// Args is a copy of the field arguments without the page argument.
	Args map[string]interface{}
}

// analyzeSelection inspects a paged field's selection set and arguments.
// The page argument is validated and removed; distinct resolves from the
// explicit argument when present, otherwise from defaultDistinct.
func analyzeSelection(field *ast.Field, args map[string]interface{}, names reserved.Names, defaultDistinct bool) (*selection, error) {
	sel := &selection{
		Distinct: defaultDistinct,
		Args:     make(map[string]interface{}, len(args)),
	}

	if field != nil && field.SelectionSet != nil {
		for _, s := range field.SelectionSet.Selections {
			f, ok := s.(*ast.Field)
			if !ok || f.Name == nil {
				continue
			}
			switch f.Name.Value {
			case names.Records:
				sel.WantsRecords = true
			case names.Total:
				sel.WantsTotal = true
			case names.Pages:
				sel.WantsPages = true
			}
		}
	}

	for name, value := range args {
		switch names.Classify(name) {
		case reserved.KindPage:
			window, err := parsePageWindow(names, value)
			if err != nil {
				return nil, err
			}
			sel.Window = window
		case reserved.KindDistinct:
			boolVal, ok := value.(bool)
			if !ok {
				return nil, &qerr.ArgumentError{Name: names.Distinct, Reason: "must be a boolean"}
			}
			sel.Distinct = boolVal
			sel.Args[name] = value
		default:
			sel.Args[name] = value
		}
	}

	return sel, nil
}

func parsePageWindow(names reserved.Names, value interface{}) (*planner.PageWindow, error) {
	pageMap, ok := value.(map[string]interface{})
	if !ok {
		return nil, &qerr.ArgumentError{Name: names.Page, Reason: "must be an object"}
	}

	start, ok := intValue(pageMap[names.PageStart])
	if !ok {
		return nil, &qerr.ArgumentError{Name: names.Page, Key: names.PageStart, Reason: "is required and must be an integer"}
	}
	limit, ok := intValue(pageMap[names.PageLimit])
	if !ok {
		return nil, &qerr.ArgumentError{Name: names.Page, Key: names.PageLimit, Reason: "is required and must be an integer"}
	}
	if start < 1 {
		return nil, &qerr.ArgumentError{Name: names.Page, Key: names.PageStart, Reason: "must be at least 1"}
	}
	if limit < 1 {
		return nil, &qerr.ArgumentError{Name: names.Page, Key: names.PageLimit, Reason: "must be positive"}
	}

	return &planner.PageWindow{Start: start, Limit: limit}, nil
}

// intValue coerces the numeric forms arguments arrive in. Variables
// decoded from JSON come through as float64.
func intValue(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
