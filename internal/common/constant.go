package common

const (
	// AccessTokenHeaderName is the gRPC metadata key (and HTTP header) used to
	// carry the session token on requests from API clients.
	AccessTokenHeaderName = "access_token"

	// SessionCookieName is the browser cookie holding the session token.
	SessionCookieName = "session"

	// CSRFFieldName is the form field carrying the anti-forgery token.
	CSRFFieldName = "csrf_token"

	// CSRFHeaderName is the header alternative to CSRFFieldName.
	CSRFHeaderName = "X-CSRF-Token"
)
