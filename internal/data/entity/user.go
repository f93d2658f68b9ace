package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleManager  UserRole = "manager"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Username string   `db:"username"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
}
