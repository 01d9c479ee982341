// Package transport invokes named operations of the DQF REST API.
//
// Every remote call made by this module goes through the Transport
// interface:
//
//	resp, err := t.Invoke(ctx, &transport.Request{
//		Operation:  transport.OpGetMasterProject,
//		PathParams: transport.Params{"projectId": "42"},
//		Headers:    transport.Headers{SessionID: "...", ProjectKey: "..."},
//	})
//
// An error is returned only when no response could be obtained (network
// failure, exhausted retries, undecodable body). Interpreting the status
// code is left to the caller: each Operation declares the status it expects.
//
// Client is the HTTP implementation. It retries network errors and 5xx
// responses with exponential backoff. The mock subpackage provides an
// in-memory Service for tests.
package transport
