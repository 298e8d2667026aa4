package model

// Role is the account type chosen at registration.
// A PME owns a Societe; an EXPERT (accountant) does not.
type Role string

const (
	RolePME    Role = "PME"
	RoleExpert Role = "EXPERT"
)

func (r Role) Valid() bool {
	return r == RolePME || r == RoleExpert
}

// OwnsSociete reports whether registration creates a Societe for this role.
func (r Role) OwnsSociete() bool {
	return r == RolePME
}
