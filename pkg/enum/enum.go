package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumManager = map[string]any{}
	enumMutex   sync.RWMutex
)

type enum[T comparable] struct {
	toEnum map[string]T
}

// New registers value as a member of its enum type. It is intended to be
// called from package-level var blocks.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	t := v.Type()

	enumMutex.Lock()
	defer enumMutex.Unlock()
	if _, ok := enumManager[t.Name()]; !ok {
		enumManager[t.Name()] = enum[T]{toEnum: make(map[string]T)}
	}

	enumManager[t.Name()].(enum[T]).toEnum[fmt.Sprint(value)] = value
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T

	enumMutex.RLock()
	defer enumMutex.RUnlock()
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}
