package domain

import "strings"

// Credentials authenticate against a management endpoint.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether neither a username nor a password is set.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Complete reports whether both a username and a password are set.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Override layers the non-empty fields of o on top of c.
func (c Credentials) Override(o Credentials) Credentials {
	if u := strings.TrimSpace(o.Username); u != "" {
		c.Username = u
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	return c
}

// String never exposes the password.
func (c Credentials) String() string {
	if c.Username == "" {
		return "<none>"
	}
	return c.Username + ":******"
}
