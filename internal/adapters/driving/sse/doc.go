// Package sse is the protocol adapter that exposes the tool registry over
// HTTP. Each POST /sse request carries one {method, params} call and is
// answered with a single server-sent event.
//
// Supported methods:
//
//	tools/list  -> {"tools": [...]}
//	tools/call  -> {"content": [{"type": "text", "text": ...}]} or {"error": ...}
//
// Any other method yields {"error": "unknown method: <method>"}.
package sse
