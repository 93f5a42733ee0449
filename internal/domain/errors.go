package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError detalla un faltante de stock al crear una venta:
// qué producto, cuánto hay disponible y cuánto se pidió.
// Envuelve ErrInsufficientStock para que el caller pueda hacer errors.Is.
type InsufficientStockError struct {
	ProductID string
	VariantID string
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %d, requerido %d",
		e.ProductID, e.Available, e.Required)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
