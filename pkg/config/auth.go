package config

import "github.com/npackd/npackd-go/pkg/auth"

// AuthConfigContainer is implemented by each of AuthConfig's variants, each
// of which knows how to build the auth.Authenticator it configures.
type AuthConfigContainer interface {
	ToAuthenticator() auth.Authenticator
}

// AuthConfig holds the (at most one active) authentication scheme
// configured for a repository URL, keyed in Settings.RepositoryAuth.
type AuthConfig struct {
	BasicAuth  *BasicAuth  `yaml:"basic,omitempty"`
	HeaderAuth *HeaderAuth `yaml:"header,omitempty"`
	BearerAuth *BearerAuth `yaml:"bearer,omitempty"`
}

// BasicAuth holds configuration for HTTP Basic Authentication.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// HeaderAuth holds configuration for custom header-based authentication.
type HeaderAuth struct {
	Headers map[string]string `yaml:"headers"`
}

// BearerAuth holds configuration for Bearer token authentication.
type BearerAuth struct {
	Token string `yaml:"token"`
}

// ToAuthenticator converts the BasicAuth configuration to an Authenticator.
func (b *BasicAuth) ToAuthenticator() auth.Authenticator {
	return &auth.BasicAuth{Username: b.Username, Password: b.Password}
}

// ToAuthenticator converts the HeaderAuth configuration to an Authenticator.
func (h *HeaderAuth) ToAuthenticator() auth.Authenticator {
	return &auth.HeaderAuth{Headers: h.Headers}
}

// ToAuthenticator converts the BearerAuth configuration to an Authenticator.
func (b *BearerAuth) ToAuthenticator() auth.Authenticator {
	return &auth.BearerAuth{Token: b.Token}
}

// ToAuthenticator resolves whichever scheme is set on c, or nil if none is.
func (c *AuthConfig) ToAuthenticator() auth.Authenticator {
	switch {
	case c.BasicAuth != nil:
		return c.BasicAuth.ToAuthenticator()
	case c.HeaderAuth != nil:
		return c.HeaderAuth.ToAuthenticator()
	case c.BearerAuth != nil:
		return c.BearerAuth.ToAuthenticator()
	default:
		return nil
	}
}

// ToAuthMap converts every configured repository's AuthConfig into its
// auth.Authenticator, keyed by repository URL — the shape
// pkg/loader.Fetcher.SetAuthenticator consumes directly, one call per
// entry, wiring a repository's credentials from config straight into its
// fetches.
func (c *Config) ToAuthMap() map[string]auth.Authenticator {
	if len(c.Settings.RepositoryAuth) == 0 {
		return nil
	}
	results := make(map[string]auth.Authenticator, len(c.Settings.RepositoryAuth))
	for url, cfg := range c.Settings.RepositoryAuth {
		if cfg == nil {
			continue
		}
		if a := cfg.ToAuthenticator(); a != nil {
			results[url] = a
		}
	}
	if len(results) == 0 {
		return nil
	}
	return results
}
