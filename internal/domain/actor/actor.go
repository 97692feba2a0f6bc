package actor

// Role names the already-authenticated caller's role. Authentication itself
// happens outside this core; operations only receive the result.
type Role string

const (
	RoleUser        Role = "USER"
	RoleLoanManager Role = "LOAN_MANAGER"
	RoleBankManager Role = "BANK_MANAGER"
	RoleAdmin       Role = "ADMIN"
	RoleSystem      Role = "SYSTEM"
)

type Actor struct {
	ID   string
	Role Role
}
