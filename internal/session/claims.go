package session

const (
	ClaimUsername = "username"
	ClaimRole     = "role"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims are the key/value assertions carried by a session token.
type Claims map[string]string

// Get returns the claim value and whether the key is present.
func (c Claims) Get(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

// Username returns the username claim, or "" when absent.
func (c Claims) Username() string {
	return c[ClaimUsername]
}

// Clone returns an independent copy.
func (c Claims) Clone() Claims {
	if c == nil {
		return nil
	}
	out := make(Claims, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
