// Package provider abstracts the generative-AI backend used by the
// storefront's assistant endpoints.
//
// The Client interface is deliberately small: one multimodal generateContent
// call. Each adapter handles its own backend protocol internally and maps
// backend failures to structured api.APIError values at the adapter
// boundary, so callers classify failures by tagged type instead of
// inspecting error messages.
package provider
