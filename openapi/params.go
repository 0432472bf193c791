package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/paramcheck"
)

// ParamSchema returns the schema documenting p, with p's choices as the enum
// and p's rules applied. required reports whether a rule marked the
// parameter required.
func ParamSchema(p paramcheck.Param) (schema *openapi3.SchemaRef, required bool, err error) {
	var s *openapi3.Schema
	switch p.Type {
	case paramcheck.TypeInteger:
		s = openapi3.NewInt64Schema()
	case paramcheck.TypeNumber:
		s = openapi3.NewFloat64Schema()
	case paramcheck.TypeBoolean:
		s = openapi3.NewBoolSchema()
	case paramcheck.TypeDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case paramcheck.TypeFile:
		s = openapi3.NewStringSchema().WithFormat("binary")
	case paramcheck.TypeArray:
		s = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		s = openapi3.NewStringSchema()
	}
	if values := p.ChoiceValues(); values != nil {
		if s.Items != nil {
			// array values arrive as strings
			for _, v := range values {
				s.Items.Value.Enum = append(s.Items.Value.Enum, fmt.Sprint(v))
			}
		} else {
			s.Enum = values
		}
	}
	s.Deprecated = p.Deprecated

	schema = openapi3.NewSchemaRef("", s)
	parent := openapi3.NewObjectSchema()
	for _, rule := range p.Rules {
		if err := rule.Describe(p.Name, parent, schema); err != nil {
			return nil, false, fmt.Errorf("param %s: %w", p.Name, err)
		}
	}
	for _, name := range parent.Required {
		if name == p.Name {
			required = true
		}
	}
	return schema, required, nil
}

// buildParameters documents params for an operation at path. Path variables
// always become required path parameters, declared or not; path variable pk
// takes the documentation of the id parameter. Query and header parameters
// become parameters, form parameters one form request body and a body
// parameter a JSON request body.
func buildParameters(models *Models, path string, params []paramcheck.Param) (openapi3.Parameters, *openapi3.RequestBodyRef, error) {
	byName := map[string]paramcheck.Param{}
	for _, p := range params {
		byName[p.Name] = p
	}

	var out openapi3.Parameters
	inPath := map[string]bool{}
	for _, arg := range PathArgs(path) {
		p, ok := byName[arg]
		if !ok && arg == "pk" {
			p, ok = byName["id"]
		}
		if !ok {
			p = paramcheck.Param{Name: arg, In: paramcheck.InPath}.Normalize("")
		}
		inPath[p.Name] = true
		p.Name = arg
		param, err := newParameter(p, openapi3.ParameterInPath)
		if err != nil {
			return nil, nil, err
		}
		param.Required = true
		out = append(out, &openapi3.ParameterRef{Value: param})
	}

	form := openapi3.NewObjectSchema()
	formType := "application/x-www-form-urlencoded"
	var body *openapi3.RequestBodyRef
	for _, p := range params {
		if inPath[p.Name] {
			continue
		}
		switch p.In {
		case paramcheck.InPath:
			return nil, nil, &paramcheck.DefinitionError{Param: p.Name, Message: fmt.Sprintf("path parameter is not a variable of %s", path)}
		case paramcheck.InQuery, paramcheck.InHeader:
			in := openapi3.ParameterInQuery
			if p.In == paramcheck.InHeader {
				in = openapi3.ParameterInHeader
			}
			param, err := newParameter(p, in)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, &openapi3.ParameterRef{Value: param})
		case paramcheck.InForm:
			schema, required, err := ParamSchema(p)
			if err != nil {
				return nil, nil, err
			}
			schema.Value.Description = p.Description
			form.Properties[p.Name] = schema
			if p.Required || required {
				form.Required = append(form.Required, p.Name)
			}
			if p.Type == paramcheck.TypeFile {
				formType = "multipart/form-data"
			}
		case paramcheck.InBody:
			var schema *openapi3.SchemaRef
			var err error
			if p.Model != nil {
				schema, err = models.SchemaFor(p.Model)
			} else {
				schema, _, err = ParamSchema(p)
			}
			if err != nil {
				return nil, nil, fmt.Errorf("param %s: %w", p.Name, err)
			}
			rb := openapi3.NewRequestBody().
				WithDescription(p.Description).
				WithRequired(p.Required).
				WithJSONSchemaRef(schema)
			body = &openapi3.RequestBodyRef{Value: rb}
		}
	}

	if len(form.Properties) > 0 {
		rb := openapi3.NewRequestBody().
			WithRequired(len(form.Required) > 0).
			WithSchema(form, []string{formType})
		body = &openapi3.RequestBodyRef{Value: rb}
	}
	return out, body, nil
}

func newParameter(p paramcheck.Param, in string) (*openapi3.Parameter, error) {
	schema, required, err := ParamSchema(p)
	if err != nil {
		return nil, err
	}
	return &openapi3.Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    p.Required || required,
		Deprecated:  schema.Value.Deprecated,
		Schema:      schema,
	}, nil
}
