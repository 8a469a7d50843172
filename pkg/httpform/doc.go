// Package httpform serves validation containers over HTTP.
//
// A Document is the server-side stand-in for a rendered form: it implements
// validation.UI by keeping message places, interaction bindings and the
// submit gate in memory, and reads element values from the latest request.
// Server keys one container per form and client session (the
// X-Form-Session header, generated on first contact) and exposes:
//
//	GET  /forms/{form}                           fields, settings and places
//	GET  /forms/{form}/messages                  current message places
//	POST /forms/{form}/submit                    whole-form pass, 422 when blocked
//	POST /forms/{form}/fields/{field}/events/{trigger}
//	                                             run the handler bound to trigger
//	GET  /healthz                                readiness probes
//	GET  /metrics                                Prometheus metrics
//
// Request bodies may be form encoded, multipart or a JSON object. Errors are
// answered as a JSON envelope whose error.code is a stable key.
package httpform
