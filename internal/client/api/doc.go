// Package api is the HTTP client the CLI uses to talk to the taskkeeper
// backend.
//
// Every server response carries the envelope
// {data, responseMessage, responseCode}. Client decodes data into typed
// results; any code other than 200 comes back as *Error, which unwraps to
// the matching sentinel from internal/common so callers can use errors.Is.
// Transport failures are reported as ErrUnavailable.
//
// Client keeps the session token from the last successful Login in memory
// and sends it as a bearer token. It is not safe for concurrent use.
package api
