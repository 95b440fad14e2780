// Package component holds the registry of embeddable components and the
// resolver that binds component invocations in a document body to it.
//
// The registry describes what the external renderer accepts: component
// names, their parameters and whether they wrap content. Parameter rules are
// compiled into JSON Schemas so statically known attribute values can be
// checked before the document ever reaches the renderer.
package component
