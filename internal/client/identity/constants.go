package identity

const (
	// identityAPISignUpURI is the URI path of the email/password sign-up endpoint.
	identityAPISignUpURI = "accounts:signUp"
	// identityAPISignInURI is the URI path of the email/password sign-in endpoint.
	identityAPISignInURI = "accounts:signInWithPassword"
	// identityAPILookupURI is the URI path of the account lookup endpoint.
	identityAPILookupURI = "accounts:lookup"
)

const (
	// apiKeyQueryParam is the query parameter carrying the Web API key.
	apiKeyQueryParam = "key"
	// contentTypeHeader is the HTTP header name for Content-Type.
	contentTypeHeader = "Content-Type"
	// jsonContentType is the content type of every request body.
	jsonContentType = "application/json"
	// maxResponseSize caps how much of a response body is read (1 MB).
	maxResponseSize = 1 << 20
)
