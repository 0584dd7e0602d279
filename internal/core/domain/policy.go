package domain

// Decision is the outcome of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Authorize decides whether the caller may mutate a product owned by ownerID.
// Admins may mutate anything; everyone else only their own records. An empty
// caller id never matches, so unauthenticated or malformed identities are
// denied rather than accidentally equal to a blank owner field.
func Authorize(callerID, callerRole, ownerID string) Decision {
	if callerRole == RoleAdmin {
		return Allow
	}
	if callerID != "" && callerID == ownerID {
		return Allow
	}
	return Deny
}
