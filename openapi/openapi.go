package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/paramcheck"
)

// Security scheme names registered by WithBasicAuth and WithAPIKey.
const (
	BasicAuth = "basic"
	APIKey    = "apiKey"
)

// Response describes an HTTP response with a description and body types for schema generation.
type Response struct {
	Desc   string
	Bodies []any
}

// Endpoint describes a single API operation for [AddEndpoint] and the
// helpers [Get], [Post], [Put], [Patch] and [Delete].
type Endpoint struct {
	// Params documents the parameters and the request body. The first line
	// of its title is the default summary, the whole title the default
	// description.
	Params *paramcheck.Set
	// Action is list, retrieve, create, update, partial_update or destroy.
	// It is inferred from the method and path when empty.
	Action      string
	OperationID string
	Summary     string
	Description string
	// Tags default to the first named path component.
	Tags []string
	// Model is the struct, or serializer struct, returned on success. It is
	// documented as a component and referenced, as an array for list actions.
	Model any
	// Sample documents the success body from a sample, see SchemaFromSample.
	Sample any
	// Request and Requests document explicit request bodies (oneOf for
	// several), replacing the one derived from Params.
	Request  any
	Requests []any
	// Response documents an inline success body.
	Response any
	// Responses replace the generated responses with the same status.
	Responses map[string]Response
	// Security names the schemes the operation accepts. Nil inherits the
	// document's schemes.
	Security []string
	// Public documents the operation as requiring no authentication.
	Public     bool
	Deprecated bool
}

// DocOption configures the document created by DocBase.
type DocOption func(*openapi3.T)

// WithServer adds a server URL.
func WithServer(url, description string) DocOption {
	return func(doc *openapi3.T) {
		doc.AddServer(&openapi3.Server{URL: url, Description: description})
	}
}

// WithBasicAuth accepts HTTP basic authentication on every operation.
func WithBasicAuth() DocOption {
	return func(doc *openapi3.T) {
		addSecurity(doc, BasicAuth, &openapi3.SecurityScheme{Type: "http", Scheme: "basic"})
	}
}

// WithAPIKey accepts an API key sent in header on every operation.
func WithAPIKey(header string) DocOption {
	return func(doc *openapi3.T) {
		addSecurity(doc, APIKey, &openapi3.SecurityScheme{Type: "apiKey", Name: header, In: "header"})
	}
}

func addSecurity(doc *openapi3.T, name string, scheme *openapi3.SecurityScheme) {
	if doc.Components.SecuritySchemes == nil {
		doc.Components.SecuritySchemes = openapi3.SecuritySchemes{}
	}
	doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{Value: scheme}
	doc.Security = append(doc.Security, openapi3.NewSecurityRequirement().Authenticate(name))
}

// DocBase returns a basic OpenAPI 3.0.3 document structure.
func DocBase(serviceName, description, version string, opts ...DocOption) *openapi3.T {
	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &components,
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(vs ...any) *openapi3.RequestBodyRef {
	o, err := NewRequest(vs...)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest generates a JSON request body from the given value types,
// oneOf when there are several.
func NewRequest(vs ...any) (*openapi3.RequestBodyRef, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}
	schema, err := oneOf(vs)
	if err != nil {
		return nil, err
	}
	body := openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema)
	return &openapi3.RequestBodyRef{Value: body}, nil
}

// NewResponseMust is like [NewResponse] but panics on error.
// Map key is status code (e.g. "200", "4xx").
func NewResponseMust(vs map[string]Response) *openapi3.Responses {
	o, err := NewResponse(vs)
	if err != nil {
		panic(err)
	}
	return o
}

// NewResponse creates an OpenAPI responses object.
// Map key is status code (e.g. "200", "4xx").
func NewResponse(vs map[string]Response) (*openapi3.Responses, error) {
	if len(vs) == 0 {
		return nil, errors.New("no values given")
	}
	responses := openapi3.NewResponsesWithCapacity(len(vs))
	if err := setResponses(responses, vs); err != nil {
		return nil, err
	}
	return responses, nil
}

func setResponses(responses *openapi3.Responses, vs map[string]Response) error {
	for status, r := range vs {
		resp := openapi3.NewResponse().WithDescription(r.Desc)
		if len(r.Bodies) > 0 {
			schema, err := oneOf(r.Bodies)
			if err != nil {
				return fmt.Errorf("response %s: %w", status, err)
			}
			resp.WithJSONSchemaRef(schema)
		}
		responses.Set(status, &openapi3.ResponseRef{Value: resp})
	}
	return nil
}

// oneOf generates inline schemas for vs, wrapped in oneOf when there are
// several.
func oneOf(vs []any) (*openapi3.SchemaRef, error) {
	refs := make(openapi3.SchemaRefs, 0, len(vs))
	for _, v := range vs {
		schema, err := NewSchemaRefForValue(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, schema)
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{OneOf: refs}), nil
}

// AddPath adds an operation to the OpenAPI spec at the given path and method.
func AddPath(path, method string, s *openapi3.T, op *openapi3.Operation) {
	s.AddOperation(path, strings.ToUpper(method), op)
}

// AddEndpoint documents ep as the operation at path and method.
func AddEndpoint(doc *openapi3.T, path, method string, ep Endpoint) error {
	op, err := NewOperation(doc, path, method, ep)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	for _, tag := range op.Tags {
		if doc.Tags.Get(tag) == nil {
			doc.Tags = append(doc.Tags, &openapi3.Tag{Name: tag})
		}
	}
	AddPath(path, method, doc, op)
	return nil
}

// NewOperation builds the operation for ep without adding it to doc. Models
// it refers to are registered as components of doc.
func NewOperation(doc *openapi3.T, path, method string, ep Endpoint) (*openapi3.Operation, error) {
	method = strings.ToUpper(method)
	models := NewModels(doc)

	action := ep.Action
	if action == "" && ep.Params != nil {
		action = ep.Params.Action()
	}
	if action == "" {
		action = InferAction(method, path)
	}

	op := &openapi3.Operation{
		OperationID: ep.OperationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Tags:        ep.Tags,
		Deprecated:  ep.Deprecated,
	}
	if op.OperationID == "" {
		op.OperationID = OperationID(path, action)
	}
	if len(op.Tags) == 0 {
		if tag := Tag(path); tag != "" {
			op.Tags = []string{tag}
		}
	}

	var params []paramcheck.Param
	if ep.Params != nil {
		title := strings.TrimSpace(ep.Params.Title())
		if op.Summary == "" {
			op.Summary, _, _ = strings.Cut(title, "\n")
		}
		if op.Description == "" {
			op.Description = title
		}
		params = ep.Params.ParamsFor(action)
	}
	parameters, body, err := buildParameters(models, path, params)
	if err != nil {
		return nil, err
	}
	op.Parameters = parameters
	op.RequestBody = body
	switch {
	case len(ep.Requests) > 0:
		op.RequestBody, err = NewRequest(ep.Requests...)
	case ep.Request != nil:
		op.RequestBody, err = NewRequest(ep.Request)
	}
	if err != nil {
		return nil, err
	}

	op.Responses, err = buildResponses(models, action, ep)
	if err != nil {
		return nil, err
	}

	switch {
	case ep.Public:
		op.Security = openapi3.NewSecurityRequirements()
	case ep.Security != nil:
		reqs := openapi3.NewSecurityRequirements()
		for _, name := range ep.Security {
			reqs.With(openapi3.NewSecurityRequirement().Authenticate(name))
		}
		op.Security = reqs
	}
	return op, nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Get registers a GET endpoint on doc. An empty operationID is derived from
// the path. It panics when ep cannot be documented.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	ep.OperationID = firstNonEmpty(operationID, ep.OperationID)
	must(AddEndpoint(doc, path, http.MethodGet, ep))
}

// Post registers a POST endpoint on doc.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	ep.OperationID = firstNonEmpty(operationID, ep.OperationID)
	must(AddEndpoint(doc, path, http.MethodPost, ep))
}

// Put registers a PUT endpoint on doc.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) {
	ep.OperationID = firstNonEmpty(operationID, ep.OperationID)
	must(AddEndpoint(doc, path, http.MethodPut, ep))
}

// Patch registers a PATCH endpoint on doc.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) {
	ep.OperationID = firstNonEmpty(operationID, ep.OperationID)
	must(AddEndpoint(doc, path, http.MethodPatch, ep))
}

// Delete registers a DELETE endpoint on doc.
func Delete(doc *openapi3.T, path, operationID string, ep Endpoint) {
	ep.OperationID = firstNonEmpty(operationID, ep.OperationID)
	must(AddEndpoint(doc, path, http.MethodDelete, ep))
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
