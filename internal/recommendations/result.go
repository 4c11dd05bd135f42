package recommendations

import "fmt"

// Kind enumerates every outcome a recommendation call can have. Callers
// switch on Kind; failures never surface as Go errors or HTTP failures.
type Kind int

const (
	KindOK Kind = iota
	KindMissingKey
	KindAuthFailed
	KindRateLimited
	KindUpstreamError
	KindNetworkError
	KindUnknown
)

// String returns a short label, used for metrics.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMissingKey:
		return "missing_key"
	case KindAuthFailed:
		return "auth_failed"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamError:
		return "upstream_error"
	case KindNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Result is the closed outcome of a recommendation call. Recommendations is
// populated only for KindOK; Status only for KindUpstreamError.
type Result struct {
	Kind            Kind
	Recommendations []string
	Status          int
}

// OK reports whether the call produced a recommendation list.
func (r Result) OK() bool {
	return r.Kind == KindOK
}

// Message renders the user-facing error string embedded in the response
// payload for non-OK results.
func (r Result) Message() string {
	switch r.Kind {
	case KindMissingKey:
		return "Error: API key was not provided in the request."
	case KindAuthFailed:
		return "Error: Authentication failed. The provided API key is invalid or has expired."
	case KindRateLimited:
		return "Error: Rate limit exceeded for the API key. Please try again later."
	case KindUpstreamError:
		return fmt.Sprintf("Error: The AI service returned an error (Status %d). Please check the server logs.", r.Status)
	case KindNetworkError:
		return "Error: Could not connect to the AI recommendation service. Please check your network connection."
	case KindUnknown:
		return "Error: An unexpected error occurred while generating AI recommendations."
	default:
		return ""
	}
}
