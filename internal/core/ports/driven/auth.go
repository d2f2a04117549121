package driven

// TokenProvider supplies API credentials per forge host. Implementations
// read the environment, a keychain, or config; the connector does not
// care where tokens come from.
type TokenProvider interface {
	// Token returns the access token for host. Returns an error when no
	// credential is configured for host.
	Token(host string) (string, error)
}
