// Package requestid correlates log records of one HTTP request.
//
// Middleware reuses a valid X-Request-ID sent by the client or generates a
// UUID, stores it in the request context and echoes it in the response.
// Valid and New apply the same acceptance rules to other client supplied
// identifiers, such as form sessions.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	handler := requestid.Middleware(router)
package requestid
