// Package auth provides HTTP middleware for the dashboard API.
//
// APIKey(mode, header, key) rejects requests whose header value does not
// match key with 401. When mode != "apikey" or key is empty every request
// passes through, so auth is opt-in via config.
//
// RequestID tags each request with an X-Request-ID (a UUID when the client
// did not supply one) and echoes it on the response.
package auth
