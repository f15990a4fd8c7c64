// Package leakradar provides a client for the LeakRadar.io leak-intelligence
// API: credential-leak search, domain and email exposure reports, CSV exports,
// and leak unlocking.
//
// Construct a Client with New and release it with Close when done:
//
//	client := leakradar.New(
//		leakradar.WithToken(os.Getenv("LEAKRADAR_TOKEN")),
//	)
//	defer client.Close()
//
//	profile, err := client.GetProfile(ctx)
//
// Search and report endpoints return the decoded JSON document as
// map[string]any, unlock endpoints return the per-leak result list, and
// export endpoints return the raw CSV bytes. Optional filter fields are
// pointers; absent filters are omitted from the request entirely. The
// String, Int, and Bool helpers build pointer values inline:
//
//	results, err := client.SearchAdvanced(ctx, leakradar.AdvancedSearchParams{
//		AdvancedFilters: leakradar.AdvancedFilters{
//			URLDomain: leakradar.String("example.com"),
//		},
//	})
//
// # Errors
//
// Failures reported by the API surface as *APIError carrying the HTTP status,
// a classified kind, and the service's detail message. Transport failures
// (DNS, dial, timeout) are returned as plain wrapped errors and never
// masquerade as API errors.
//
//	if apiErr, ok := leakradar.AsAPIError(err); ok && apiErr.Kind == leakradar.KindTooManyRequests {
//		// back off
//	}
//
// A Client is safe for concurrent use; the token, base URL, and identification
// header are fixed at construction.
package leakradar
