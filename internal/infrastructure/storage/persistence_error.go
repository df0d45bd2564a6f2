package storage

import "fmt"

// PersistenceError — отказ записи или чтения хранилища решений.
// Никогда не отменяет уже вычисленное решение: вызывающий получает
// и решение, и ошибку сохранения.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("decision store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
