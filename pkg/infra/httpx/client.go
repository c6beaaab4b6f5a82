package httpx

import "net/http"

// Client abstracts the outbound HTTP client so adapters can be tested
// without real network calls. *http.Client satisfies it.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
