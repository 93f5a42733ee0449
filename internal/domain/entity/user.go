package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCashier  = "cashier"
)

// User representa un usuario del sistema (el "actor" atribuido en los
// movimientos de stock y las ventas).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, cashier
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
