// Package api implements the Gemini Web upstream adapter: cookie-based
// authentication, attachment upload, and content generation sessions.
package api

// GJSON paths for extracting values from generate responses.
// These centralize the magic indices of the undocumented wire format.
const (
	// Response envelope paths
	PathBody      = "2"
	PathCandList  = "4"
	PathMetadata  = "1"
	PathErrorCode = "0.5.2.0.1.0"

	// Alternative error path - used when the API returns the short error
	// format [["wrb.fr",null,null,null,null,[3]],...]
	PathAltErrorCode = "0.5.0"

	// Candidate paths (relative to candidate object)
	PathCandRCID     = "0"
	PathCandText     = "1.0"
	PathCandThoughts = "37.0.0"
)
