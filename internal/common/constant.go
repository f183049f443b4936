package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound API requests.
const AuthorizationHeaderName = "Authorization"

// ClientRefHeaderName carries the locally generated submission reference so
// the server can deduplicate replayed submissions.
const ClientRefHeaderName = "X-Client-Ref"
