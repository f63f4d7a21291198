// Package binder extracts request data into plain structs.
//
// Binders are functions with the signature func(*http.Request, any) error so
// handlers can compose them:
//
//	var in notifyRequest
//	if err := binder.JSON()(r, &in); err != nil { ... }
//
// JSON decodes a strict application/json body; Query maps URL parameters
// through `query` struct tags. Both return sentinel errors suitable for
// mapping to 400 responses.
package binder
