package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/i18n"
)

// Def is the declarative schema document understood by FromYAML.
type Def struct {
	Fields        []FieldDef `yaml:"fields"`
	UnknownPolicy string     `yaml:"unknownPolicy"` // "strict" (default) or "strip"
}

// FieldDef declares one field.
type FieldDef struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // string|int|float|bool|any (default any)
	Required bool     `yaml:"required"`
	Pattern  string   `yaml:"pattern"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	MinLen   *int     `yaml:"minLen"`
	MaxLen   *int     `yaml:"maxLen"`
}

// FromYAML builds a schema from a declarative YAML definition:
//
//	fields:
//	  - name: email
//	    type: string
//	    required: true
//	    pattern: "^[^@]+@[^@]+$"
//	  - name: age
//	    type: int
//	    min: 0
func FromYAML(data []byte) (gokumi.Schema, error) {
	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, gokumi.Issues{gokumi.Issue{
			Path:    "/",
			Code:    gokumi.CodeParseError,
			Message: i18n.T(gokumi.CodeParseError, nil),
			Cause:   err,
		}}
	}
	if len(def.Fields) == 0 {
		return nil, gokumi.Issues{gokumi.Issue{
			Path:    "/fields",
			Code:    gokumi.CodeEmptyKeyList,
			Message: i18n.T(gokumi.CodeEmptyKeyList, nil),
			Hint:    "a schema definition needs at least one field",
		}}
	}
	b := Object()
	if def.UnknownPolicy == "strip" {
		b.UnknownStrip()
	}
	for i, fd := range def.Fields {
		if fd.Name == "" {
			return nil, gokumi.Issues{gokumi.Issue{
				Path:    fmt.Sprintf("/fields/%d/name", i),
				Code:    gokumi.CodeRequired,
				Message: i18n.T(gokumi.CodeRequired, nil),
			}}
		}
		r, err := ruleFor(i, fd)
		if err != nil {
			return nil, err
		}
		step := b.Field(fd.Name, r)
		if fd.Required {
			step.Required()
		}
	}
	return b.Build()
}

func ruleFor(i int, fd FieldDef) (Rule, error) {
	switch fd.Type {
	case "string":
		r := String()
		if fd.MinLen != nil {
			r.MinLen(*fd.MinLen)
		}
		if fd.MaxLen != nil {
			r.MaxLen(*fd.MaxLen)
		}
		if fd.Pattern != "" {
			r.Pattern(fd.Pattern)
		}
		return r, nil
	case "int", "float":
		var r *NumberRule
		if fd.Type == "int" {
			r = Int()
		} else {
			r = Float()
		}
		if fd.Min != nil {
			r.Min(*fd.Min)
		}
		if fd.Max != nil {
			r.Max(*fd.Max)
		}
		return r, nil
	case "bool":
		return Bool(), nil
	case "", "any":
		return Any(), nil
	default:
		return nil, gokumi.Issues{gokumi.Issue{
			Path:    fmt.Sprintf("/fields/%d/type", i),
			Code:    gokumi.CodeInvalidType,
			Message: i18n.T(gokumi.CodeInvalidType, nil),
			Params:  map[string]any{"got": fd.Type},
			Hint:    "expected one of string, int, float, bool, any",
		}}
	}
}
