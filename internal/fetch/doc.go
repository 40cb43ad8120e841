// Package fetch performs the single remote JSON call shared by every tunedeck
// feature.
//
// # Overview
//
// A feature client (itunes, assistant, github) describes a call as a Request
// against an injected Endpoint and hands it to Client.Do. Whatever goes wrong
// on the way, the caller gets back a *Failure tagged with one of three kinds:
//
//   - NetworkFailure: connection refused, DNS, timeout, cancelled context
//   - ServiceError: the service answered with a non-2xx status
//   - ParseFailure: the body is not JSON, does not match the request's
//     Schema, or does not decode into the destination
//
// List-shaped calls fold the result with ListOutcome, which produces an
// Outcome[[]T]: Success, Empty (valid response, zero items) or Failure. Empty
// is not an error and the UI renders it differently.
//
// # Endpoints
//
// Endpoint carries the URL, optional API key and per-call timeout. Keys are
// sent as a bearer token unless KeyHeader names a custom header:
//
//	ep := fetch.Endpoint{
//		URL:       "https://example.p.rapidapi.com/ask",
//		APIKey:    os.Getenv("TUNEDECK_ALT_API_KEY"),
//		KeyHeader: "X-RapidAPI-Key",
//		Headers:   map[string]string{"X-RapidAPI-Host": "example.p.rapidapi.com"},
//		Timeout:   15 * time.Second,
//	}
//
// # Logging
//
// Each call gets a request_id (uuid) and is traced at debug level through the
// zerolog logger passed with WithLogger. Query strings are stripped from the
// logged endpoint.
package fetch
