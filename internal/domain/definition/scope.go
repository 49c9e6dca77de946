package definition

// Scope is the visibility rule applied to listing and aggregation queries:
// either the rows owned by one user, or every row in the project.
type Scope struct {
	owner UserID
	owned bool
}

// Owned restricts results to definitions owned by userID.
func Owned(userID UserID) Scope {
	return Scope{owner: userID, owned: true}
}

// AllInProject lets every owner's definitions through.
func AllInProject() Scope {
	return Scope{}
}

// ScopeFor maps the caller's resolved identity to a Scope. Admins see all owners.
func ScopeFor(userID UserID, isAdmin bool) Scope {
	if isAdmin {
		return AllInProject()
	}
	return Owned(userID)
}

// Owner returns the owner filter, if any.
func (s Scope) Owner() (UserID, bool) {
	return s.owner, s.owned
}

func (s Scope) String() string {
	if !s.owned {
		return "all"
	}
	return "owned"
}
