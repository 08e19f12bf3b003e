// Package identity extracts the calling user from verified token claims.
package identity

import "strings"

// Caller is the authenticated user behind a request.
type Caller struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CallerFromClaims maps OIDC claims to a Caller. Check-in tokens carry the
// community user id in voperson_id, which wins over sub.
func CallerFromClaims(claims map[string]interface{}) Caller {
	c := Caller{
		ID:    firstString(claims, "voperson_id", "sub"),
		Email: firstString(claims, "email"),
	}
	c.Name = firstString(claims, "name")
	if c.Name == "" {
		given := firstString(claims, "given_name")
		family := firstString(claims, "family_name")
		c.Name = strings.TrimSpace(given + " " + family)
	}
	if c.Name == "" {
		c.Name = firstString(claims, "preferred_username")
	}
	return c
}

// Roles collects role names from the usual Keycloak and Check-in claim
// locations plus any extra claim names given.
func Roles(claims map[string]interface{}, extra ...string) []string {
	var out []string
	out = append(out, stringList(claims["roles"])...)
	if ra, ok := claims["realm_access"].(map[string]interface{}); ok {
		out = append(out, stringList(ra["roles"])...)
	}
	if res, ok := claims["resource_access"].(map[string]interface{}); ok {
		for _, v := range res {
			if m, ok := v.(map[string]interface{}); ok {
				out = append(out, stringList(m["roles"])...)
			}
		}
	}
	out = append(out, stringList(claims["eduperson_entitlement"])...)
	for _, name := range extra {
		if name != "" {
			out = append(out, stringList(claims[name])...)
		}
	}
	return out
}

// HasRole reports whether role is present in claims. Entitlement URNs match
// when role is their last colon-separated segment before any "#".
func HasRole(claims map[string]interface{}, role string, extra ...string) bool {
	for _, r := range Roles(claims, extra...) {
		if r == role {
			return true
		}
		urn := r
		if i := strings.Index(urn, "#"); i >= 0 {
			urn = urn[:i]
		}
		if i := strings.LastIndex(urn, ":"); i >= 0 && urn[i+1:] == role {
			return true
		}
	}
	return false
}

func firstString(claims map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
