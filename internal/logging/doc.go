// Package logging builds the zerolog loggers used across holdview and carries
// per-invocation trace IDs through context.Context.
package logging
