package core

import (
	"cmp"
	"slices"
	"strconv"
	"sync"
)

// Info describes a registered effect.
type Info struct {
	Key         string
	Title       string
	Description string
	// Order positions the effect in the default gallery sequence.
	Order int
	// Shader marks effects that draw best on a canvas with shader support.
	Shader bool
}

// Factory constructs an Effect using an optional configuration map.
type Factory func(cfg map[string]string) Effect

// Entry is one registered effect.
type Entry struct {
	Info    Info
	Factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Entry{}
)

// Register adds an effect factory. Registering an existing key replaces it.
func Register(info Info, f Factory) {
	if info.Key == "" || f == nil {
		return
	}
	if info.Title == "" {
		info.Title = info.Key
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[info.Key] = Entry{Info: info, Factory: f}
}

// Lookup returns the entry registered under key.
func Lookup(key string) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[key]
	return e, ok
}

// Effects returns every registered entry ordered by Info.Order, then key.
func Effects() []Entry {
	registryMu.RLock()
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	registryMu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Info.Order, b.Info.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Info.Key, b.Info.Key)
	})
	return out
}

// Keys returns the registered keys in gallery order.
func Keys() []string {
	entries := Effects()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Info.Key
	}
	return keys
}

// Resolve returns the entries named by keys in that order, or every
// registered entry when keys is empty.
func Resolve(keys []string) ([]Entry, error) {
	if len(keys) == 0 {
		entries := Effects()
		if len(entries) == 0 {
			return nil, ErrNoEffects
		}
		return entries, nil
	}
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e, ok := Lookup(k)
		if !ok {
			return nil, &UnknownEffectError{Key: k}
		}
		out = append(out, e)
	}
	return out, nil
}

// UnknownEffectError names the key that failed to resolve.
type UnknownEffectError struct {
	Key string
}

func (e *UnknownEffectError) Error() string { return "unknown effect " + strconv.Quote(e.Key) }

// Unwrap lets errors.Is match ErrUnknownEffect.
func (e *UnknownEffectError) Unwrap() error { return ErrUnknownEffect }
