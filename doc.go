// Package paramcheck validates request parameters declared once per endpoint
// and documents the same declarations as OpenAPI.
//
// Declare the parameters of an endpoint and guard its handler:
//
//	var listUsers = paramcheck.Must("List users",
//	    paramcheck.Param{Name: "group_id", Check: paramcheck.PositiveInt()},
//	    paramcheck.Param{Name: "role", Choices: []paramcheck.Choice{
//	        {Value: "admin", Description: "administrators"},
//	        {Value: "member", Description: "regular members"},
//	    }},
//	)
//
//	mux.Handle("GET /users", listUsers.Guard(handler))
//
// A request failing any check gets a 400 response listing every rejected
// parameter; a checker returning [Deny] or a refusing [Permission] ends it
// with 403. Accepted requests reach the handler with the checked values in
// the context, see [FromContext].
//
// Request bodies decoded into models are validated with rules declared by
// implementing [Ruler]:
//
//	func (o *Order) Rules() []*FieldRules {
//	    return []*FieldRules{
//	        Field(&o.ID, Required),
//	        Field(&o.Amount, Min(0.01)),
//	    }
//	}
//
// The same rules describe the model schema in the generated documentation.
//
// Sub-packages:
//   - openapi – OpenAPI document generation from parameter sets and models
//   - pathvars – path variable lookup for net/http, chi and gorilla/mux
//   - transform – struct string transformation utilities
//   - is – common string format validation rules
package paramcheck
