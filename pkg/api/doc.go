// Package api defines the wire types and structured errors for the MìMart
// storefront backend.
//
// The types here form the contract between the HTTP transport, the
// orchestration layer, and the provider adapters. Errors are represented
// as APIError values with a closed set of types; the transport layer maps
// each type to an HTTP status code, and the credential rotator uses the
// type to decide whether a failed call is worth retrying with another key.
package api
