// Package relay is the request/response bridge between the background sync
// worker and a running app instance. The worker executes outside the app's
// memory and must not read session state directly; instead it asks over a
// loopback websocket and the app answers with the current token (or null).
package relay

// Message types exchanged over the relay channel.
const MessageTypeGetToken = "GET_TOKEN"

// TokenSource is the app-side provider of the current credential.
// The second return value is false when no usable token is held.
type TokenSource interface {
	Token() (string, bool)
}

type request struct {
	Type string `json:"type"`
}

type response struct {
	Token *string `json:"token"`
}
