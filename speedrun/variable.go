package speedrun

import (
	"context"
	"fmt"
)

// VariableValue is one allowed value of a variable
type VariableValue struct {
	Label         string
	Rules         string
	Miscellaneous bool
}

// Variable is a custom field on runs. Subcategory variables split a
// category's leaderboard.
type Variable struct {
	Resource

	Name string
	// CategoryID is empty for variables that apply to every category
	CategoryID    string
	ScopeType     string
	Mandatory     bool
	UserDefined   bool
	Obsoletes     bool
	IsSubcategory bool
	// Values maps value ids to their descriptions
	Values map[string]VariableValue
	// Default is the default value id, or "" when there is none
	Default string
}

// NewVariable decodes a variable fragment. Variables carry no weblink in
// the API, so it is optional here.
func NewVariable(payload any, t Transport) (*Variable, error) {
	f, err := newFields(KindVariable, payload)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(f, t, true)
	if err != nil {
		return nil, err
	}

	v := &Variable{Resource: res}
	if v.Name, err = f.requireString("name"); err != nil {
		return nil, err
	}
	if v.CategoryID, err = f.nullableString("category"); err != nil {
		return nil, err
	}

	scope, err := f.requireObject("scope")
	if err != nil {
		return nil, err
	}
	if v.ScopeType, err = scope.requireString("type"); err != nil {
		return nil, err
	}

	if v.Mandatory, err = f.requireBool("mandatory"); err != nil {
		return nil, err
	}
	if v.UserDefined, err = f.requireBool("user-defined"); err != nil {
		return nil, err
	}
	if v.Obsoletes, err = f.requireBool("obsoletes"); err != nil {
		return nil, err
	}
	if v.IsSubcategory, err = f.requireBool("is-subcategory"); err != nil {
		return nil, err
	}

	values, err := f.requireObject("values")
	if err != nil {
		return nil, err
	}
	choices, err := values.requireObject("values")
	if err != nil {
		return nil, err
	}
	v.Values = make(map[string]VariableValue, len(choices.m))
	for id, raw := range choices.m {
		vf, err := newFields(KindVariable, raw)
		if err != nil {
			return nil, choices.fail(id, "expected object")
		}
		vf.path = choices.name(id)
		label, err := vf.requireString("label")
		if err != nil {
			return nil, err
		}
		v.Values[id] = VariableValue{
			Label:         label,
			Rules:         lookupString(raw, "rules"),
			Miscellaneous: lookupBool(raw, "flags", "miscellaneous"),
		}
	}
	if v.Default, err = values.nullableString("default"); err != nil {
		return nil, err
	}

	return v, nil
}

// Label returns the label of a value id, or the id itself when unknown
func (v *Variable) Label(valueID string) string {
	if val, ok := v.Values[valueID]; ok {
		return val.Label
	}
	return valueID
}

// ParamKey is the leaderboard query parameter that filters on v
func (v *Variable) ParamKey() string {
	return fmt.Sprintf("var-%s", v.id)
}

// Game gets the game the variable belongs to
func (v *Variable) Game(ctx context.Context) (*Game, error) {
	data, err := fetchRelatedData(ctx, v.t, v, "game", nil)
	if err != nil {
		return nil, err
	}
	return NewGame(data, v.t)
}

// Category gets the category the variable is restricted to
func (v *Variable) Category(ctx context.Context) (*Category, error) {
	data, err := fetchRelatedData(ctx, v.t, v, "category", nil)
	if err != nil {
		return nil, err
	}
	return NewCategory(data, v.t)
}
