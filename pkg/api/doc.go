// Package api defines the request and response messages of the groupledger
// Connect services.
//
// Messages are plain structs encoded as JSON. Money crosses the wire as
// decimal strings ("12.34") so clients never round-trip amounts through
// floating point. Timestamps use the well-known protobuf Timestamp type.
//
// Field tags for go-playground/validator describe the shape checks a request
// must pass before a handler looks at it.
package api
