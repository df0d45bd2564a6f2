package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует отказ транспорта к модели.
type Kind string

const (
	KindAuth      Kind = "auth"      // нет доступа к модели
	KindThrottle  Kind = "throttle"  // слишком много запросов
	KindMalformed Kind = "malformed" // конверт ответа не разобрался
	KindNetwork   Kind = "network"   // сеть, таймаут или 5xx
)

// TransportError — отказ обращения к модели, переживший встроенный повтор.
type TransportError struct {
	Backend string
	Kind    Kind
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsTransportError достаёт TransportError из цепочки обёрток.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// classifyStatus переводит HTTP-статус в вид отказа.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindThrottle
	case status >= 500:
		return KindNetwork
	default:
		return KindMalformed
	}
}

