package user

type Role string

const (
	RoleHRAdmin    Role = "hr_admin"   // Payroll, tax configuration and bonus approval
	RoleManager    Role = "manager"    // Team bonuses and reports
	RoleSupervisor Role = "supervisor" // Read-only team access
	RoleEmployee   Role = "employee"   // Regular employee
	RoleSystem     Role = "system"     // Scheduled jobs and CLI
)

// Claims is the caller identity carried by an authenticated request.
type Claims struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

func (r Role) IsValid() bool {
	switch r {
	case RoleHRAdmin, RoleManager, RoleSupervisor, RoleEmployee, RoleSystem:
		return true
	}
	return false
}
