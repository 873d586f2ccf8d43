// Package wart is an autowiring container for golang. It is
// inspired by the Pimple-style containers, where services are
// requested by a string identifier and classes not bound yet
// are constructed on demand.
//
// A class is a constructor function registered in a Registry,
// named after the qualified name of the type it returns, like
// `github.com/user/pkg.Type`. We scan the constructor with
// these rules:
//
//   1. A pointer to a named type or an interface parameter is a
//      dependency, requested by the qualified name of the named
//      type or the interface. Interfaces usually need an alias
//      or a bound value to be resolved.
//   2. Any other parameter is left for the create arguments, and
//      receives its zero value if no argument is supplied.
//   3. The constructor may return an error as the last result.
//
// The identifier resolution itself is carried out by the core
// package, which knows nothing about reflection.
package wart

import (
	"fmt"

	"github.com/aegistudio/wart/core"
)

// Container is just a simple forwarding of core.Container.
type Container = core.Container

// Option is just a simple forwarding of core.Option.
type Option = core.Option

// MergeFunc is just a simple forwarding of core.MergeFunc.
type MergeFunc = core.MergeFunc

// New creates a container autowiring the classes in reg.
func New(
	reg *Registry, values map[string]interface{}, opts ...Option,
) *Container {
	if reg == nil {
		return core.New(nil, values, opts...)
	}
	return core.New(reg, values, opts...)
}

// Get requests id from c and asserts it is of type T.
func Get[T any](c *Container, id string) (T, error) {
	var result T
	value, err := c.Get(id)
	if err != nil {
		return result, err
	}
	result, ok := value.(T)
	if !ok {
		return result, fmt.Errorf(
			"identifier %q resolved to %T, not %T", id, value, result)
	}
	return result, nil
}

// MustGet is like Get but panics on error.
func MustGet[T any](c *Container, id string) T {
	result, err := Get[T](c, id)
	if err != nil {
		panic(err)
	}
	return result
}
