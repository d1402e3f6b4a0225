// Package llm provides an OpenRouter chat client used as one of the
// summarization backends.
//
// NewClient builds a client from Config (api key, model, optional base URL,
// referer, title, timeout and sampling parameters). Complete sends a system
// and user prompt and returns the first non-empty content of the response.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty content and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default), honouring Retry-After. Context cancellation aborts retries
// immediately.
package llm
