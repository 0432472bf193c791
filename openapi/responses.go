package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/paramcheck"
)

// buildResponses documents the outcomes of an operation: 200 with the
// success body (204 for destroy), 400 and 403 with paramcheck.Result.
// Responses set on ep replace the generated ones with the same status.
func buildResponses(models *Models, action string, ep Endpoint) (*openapi3.Responses, error) {
	responses := openapi3.NewResponsesWithCapacity(3)

	result, err := models.Register(paramcheck.Result{})
	if err != nil {
		return nil, err
	}

	if action == "destroy" {
		responses.Set("204", response("Success", nil))
	} else {
		success, err := successSchema(models, action, ep)
		if err != nil {
			return nil, err
		}
		responses.Set("200", response("Success", success))
	}
	responses.Set("400", response("Bad Request", result))
	responses.Set("403", response("Forbidden", result))

	if err := setResponses(responses, ep.Responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func successSchema(models *Models, action string, ep Endpoint) (*openapi3.SchemaRef, error) {
	switch {
	case ep.Model != nil:
		ref, err := models.SchemaFor(ep.Model)
		if err != nil {
			return nil, err
		}
		if action == "list" && ref.Ref != "" {
			list := openapi3.NewArraySchema()
			list.Items = ref
			return openapi3.NewSchemaRef("", list), nil
		}
		return ref, nil
	case ep.Sample != nil:
		return SchemaFromSample(ep.Sample), nil
	case ep.Response != nil:
		return NewSchemaRefForValue(ep.Response)
	}
	return nil, nil
}

func response(desc string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	r := openapi3.NewResponse().WithDescription(desc)
	if schema != nil {
		r.WithJSONSchemaRef(schema)
	}
	return &openapi3.ResponseRef{Value: r}
}
