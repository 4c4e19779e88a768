package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los tipos estructurados de abajo los envuelven,
// así que errors.Is(err, ErrX) funciona en todas las capas.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("fallo de almacenamiento")
	ErrInUse             = errors.New("recurso en uso")
)

// InvalidInputError entrada corregible por el cliente. Nunca se reintenta.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un *InvalidInputError.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// NotFoundError recurso referenciado inexistente (artículo o venta).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotFound, e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un *NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InUseError el recurso no se puede eliminar porque otros registros lo referencian.
type InUseError struct {
	Resource string
	ID       string
	Reason   string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrInUse, e.Resource, e.ID, e.Reason)
}

func (e *InUseError) Unwrap() error { return ErrInUse }

// InUse construye un *InUseError.
func InUse(resource, id, reason string) error {
	return &InUseError{Resource: resource, ID: id, Reason: reason}
}

// InsufficientStockError salida mayor al stock disponible. Nunca se recorta la cantidad.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ItemID
	if e.ItemName != "" {
		name = fmt.Sprintf("%s (%s)", e.ItemName, e.ItemID)
	}
	return fmt.Sprintf("%s para %s: disponible %d, solicitado %d", ErrInsufficientStock, name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StorageError fallo de transacción, commit, bloqueo o conectividad. La transacción ya fue
// revertida cuando este error llega al llamador; Retryable indica si reintentar tiene sentido.
type StorageError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// IsRetryable indica si err es un StorageError reintentable.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}

// IsDomainError indica si err ya pertenece a la taxonomía del dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrInsufficientStock, ErrStorage, ErrForbidden, ErrUnauthorized, ErrInUse} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
