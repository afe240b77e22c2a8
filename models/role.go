package models

// Role is the closed set of account roles. Authorization is always an
// allow-set over these values, never a raw string comparison.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal" // ban giám hiệu
	RoleUnion     Role = "union"     // đoàn trường
	RoleMonitor   Role = "monitor"   // bí thư chi đoàn (class secretary)
	RoleRedGuard  Role = "red_guard" // cờ đỏ (violation reporter)
	RoleTeacher   Role = "teacher"   // giáo viên chủ nhiệm / bộ môn
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleUnion, RoleMonitor, RoleRedGuard, RoleTeacher:
		return true
	}
	return false
}

// ClassScoped reports whether the role is tied to a single class.
// A class may have at most one active user per class-scoped role.
func (r Role) ClassScoped() bool {
	return r == RoleMonitor || r == RoleTeacher
}
