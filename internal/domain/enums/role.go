package enums

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

func IsValidRole(v string) bool {
	switch Role(v) {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	default:
		return false
	}
}
