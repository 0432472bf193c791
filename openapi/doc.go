// Package openapi documents endpoints guarded by paramcheck sets as an
// OpenAPI 3 document, with Swagger 2.0 and YAML exports.
//
// Use [DocBase] to create a base document and register endpoints with [Get],
// [Post], [Put], [Patch], [Delete] or [AddEndpoint]. Parameters come from the
// endpoint's [paramcheck.Set], the success body from a model struct that is
// documented as a component:
//
//	doc := openapi.DocBase("Shop API", "Orders and items", "1.0",
//	    openapi.WithBasicAuth(), openapi.WithAPIKey("identify"))
//	openapi.Get(doc, "/orders/{pk}", "", openapi.Endpoint{
//	    Params: retrieveOrder,
//	    Model:  OrderSerializer{},
//	})
//	http.Handle("GET /docs/", http.StripPrefix("/docs", openapi.SpecHandler(doc)))
package openapi
