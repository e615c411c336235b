// Package tools is the tool registry and dispatcher.
//
// Each tool is a value implementing Tool: a definition (name, description,
// input schema) plus a handler. The Registry validates required and typed
// arguments before a handler runs, and wraps every outcome in the wire
// envelope: {"content":[{"type":"text","text":<json>}]} on success and
// {"error":<message>} on failure. Panics in handlers are recovered.
//
// NewDefault registers the built-in tools: search_existing_prds, get_prd,
// and store_prd in either its gated or its direct form.
package tools
