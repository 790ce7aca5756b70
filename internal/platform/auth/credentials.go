package auth

import "crypto/subtle"

// Credentials is the static role -> password table, injected from
// configuration so the core never hardcodes a secret.
type Credentials map[string]string

// Check reports whether the password matches the table entry for role.
// Roles with an empty configured password are disabled.
func (c Credentials) Check(role, password string) bool {
	want, ok := c[role]
	if !ok || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}
