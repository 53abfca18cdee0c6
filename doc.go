// Package functions provides a declarative surface for defining serverless
// functions in Go. A declaration pairs a handler with layered runtime options
// and compiles them into two deployment artifacts: a flat legacy trigger
// annotation and a structured manifest endpoint.
//
// Trigger-specific declarations live in the subpackages pubsub, https, and
// schedule. This package owns the pieces they share: the runtime option bag
// and its merge rules, the annotation and manifest shapes, and the registry
// the local host serves from.
package functions
