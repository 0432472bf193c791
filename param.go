package paramcheck

import (
	"fmt"
	"strings"
)

// Location is where a parameter travels in the request.
type Location string

// Parameter locations.
const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InForm   Location = "form"
	InBody   Location = "body"
	InHeader Location = "header"
)

// Type is the documented type of a parameter.
type Type string

// Parameter types.
const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeFile    Type = "file"
	TypeArray   Type = "array"
)

// Choice is one allowed value of a parameter and what it means.
type Choice struct {
	Value       any
	Description string
}

// Param declares one request parameter. Only Name is mandatory; Normalize
// fills in the rest.
type Param struct {
	// Name is the key looked up in the merged request data.
	Name string
	// In is where the parameter is documented to travel.
	In Location
	// Type is the documented type.
	Type Type
	// Required rejects requests where the value is missing or empty.
	Required bool
	// Description documents the parameter.
	Description string
	// Choices restricts the value and is documented as a table and an enum.
	Choices []Choice
	// Msg is reported when Check or Rules reject the value.
	Msg string
	// Replace stores the checked value under another key.
	Replace string
	// Check converts and validates the raw value.
	Check Checker
	// Rules run against the raw value before Check and describe the
	// documented schema.
	Rules []Rule
	// Model is decoded from a JSON body for In == InBody.
	Model any
	// Deprecated marks the parameter deprecated in the documentation.
	Deprecated bool
}

// defaultLocations maps endpoint actions to the location of parameters that
// do not declare one.
var defaultLocations = map[string]Location{
	"get":            InQuery,
	"list":           InQuery,
	"retrieve":       InQuery,
	"read":           InQuery,
	"create":         InForm,
	"post":           InForm,
	"update":         InForm,
	"partial_update": InForm,
}

// DefaultLocation returns the location undeclared parameters get for action.
func DefaultLocation(action string) Location {
	if l, ok := defaultLocations[strings.ToLower(action)]; ok {
		return l
	}
	return InQuery
}

// TypeByName guesses a parameter type from its name.
func TypeByName(name string) Type {
	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, "id"):
		return TypeInteger
	case strings.Contains(n, "date"), strings.Contains(n, "start"), strings.Contains(n, "end"):
		return TypeDate
	}
	return TypeString
}

// Normalize returns p with every default filled in for an endpoint with the
// given action.
func (p Param) Normalize(action string) Param {
	if p.Name == "pk" {
		p.Name = "id"
		p.Required = true
		if p.Type == "" {
			p.Type = TypeInteger
		}
	}
	if p.In == "" {
		if p.Model != nil {
			p.In = InBody
		} else {
			p.In = DefaultLocation(action)
		}
	}
	if p.In == InPath {
		p.Required = true
	}
	if p.Type == "" {
		p.Type = TypeByName(p.Name)
	}
	desc := p.Description
	if desc == "" {
		desc = p.Msg
	}
	if desc == "" {
		desc = p.Name
	}
	if p.Msg == "" {
		p.Msg = p.Description
	}
	if p.Msg == "" {
		p.Msg = "invalid value"
	}
	p.Description = desc
	if len(p.Choices) > 0 {
		rows := make([][2]string, len(p.Choices))
		for i, c := range p.Choices {
			rows[i] = [2]string{fmt.Sprint(c.Value), c.Description}
		}
		p.Description = Table(p.Description, rows...)
	}
	return p
}

// Key is where the checked value is stored.
func (p Param) Key() string {
	if p.Replace != "" {
		return p.Replace
	}
	return p.Name
}

// ChoiceValues returns the allowed values, or nil when unrestricted.
func (p Param) ChoiceValues() []any {
	if len(p.Choices) == 0 {
		return nil
	}
	out := make([]any, len(p.Choices))
	for i, c := range p.Choices {
		out[i] = c.Value
	}
	return out
}
