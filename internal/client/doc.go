// Package client fetches the holdings list from an HTTP endpoint or a local file.
//
// A fetch is a single GET with no retry. The response body is size-limited, the
// holdings array is extracted from the envelope with a JSONPath expression, and
// failures are reported as *FetchError classified by Kind. When a snapshot store
// is configured, successful payloads are saved and served back if a later fetch
// fails or the client runs offline.
package client
