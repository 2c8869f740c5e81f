// Package httputil provides the request and response helpers shared by the
// jsonviz HTTP handlers.
//
// # Responses
//
// [WriteJSON] encodes a value with the given status. [WriteError] maps a
// structured error from pkg/errors to its HTTP status and writes the JSON
// error envelope:
//
//	{"code": "PARSE_ERROR", "message": "JSON parse error: unexpected end of JSON input"}
//
// Internal errors are reported with a generic message so that server
// details do not leak to clients.
//
// # Requests
//
// [ReadBody] reads a size-limited request body and reports oversized input
// as INPUT_TOO_LARGE. The Query helpers parse optional query parameters and
// report malformed values as INVALID_INPUT:
//
//	repair, err := httputil.QueryBool(r, "repair")
//	spacing, err := httputil.QueryFloat(r, "x_spacing")
package httputil
