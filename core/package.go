// Package core is the host independent part of the container.
// It resolves string identifiers into instances, building them
// on demand from the class metadata supplied by a Loader, so a
// container of any flavour can be built upon it.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// Class is the metadata of a constructible class.
//
// Params lists the dependency identifier of each constructor
// parameter in order. An empty identifier marks a parameter
// that declares no dependency type, which can only be filled
// by the create arguments.
type Class struct {
	Params []string

	// Factory builds the instance from positional arguments.
	// The arguments may be fewer or more than Params.
	Factory func(args []interface{}) (interface{}, error)
}

// Loader looks up the metadata of a class by its name.
type Loader interface {
	Load(className string) (*Class, bool)
}

// ClassMap is the in-memory Loader indexed by class name.
type ClassMap map[string]*Class

// Load implements Loader.
func (m ClassMap) Load(className string) (*Class, bool) {
	class, ok := m[className]
	if !ok || class == nil || class.Factory == nil {
		return nil, false
	}
	return class, true
}

// Kind classifies the errors raised by the container.
type Kind int

const (
	KindNotDefined = Kind(iota + 1)
	KindClassNotFound
	KindFrozenOverride
	KindCircularDependency
	KindInvalidCreateArgs
)

func (k Kind) String() string {
	switch k {
	case KindNotDefined:
		return "NotDefined"
	case KindClassNotFound:
		return "ClassNotFound"
	case KindFrozenOverride:
		return "FrozenOverride"
	case KindCircularDependency:
		return "CircularDependency"
	case KindInvalidCreateArgs:
		return "InvalidCreateArgs"
	default:
		return "Unknown"
	}
}

// Error is the error raised while resolving identifiers.
//
// ID is the identifier or class name the error is about, and
// Path is only filled for KindCircularDependency, closing the
// loop with its first element.
type Error struct {
	Kind Kind
	ID   string
	Path []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotDefined:
		return fmt.Sprintf(`Identifier "%s" is not defined.`, e.ID)
	case KindClassNotFound:
		return fmt.Sprintf(
			`Class "%s" does not exist and could not be found in namespaces`, e.ID)
	case KindFrozenOverride:
		return fmt.Sprintf(`Cannot override frozen service "%s"`, e.ID)
	case KindCircularDependency:
		return "Found circular dependencies: " + strings.Join(e.Path, " => ")
	case KindInvalidCreateArgs:
		return fmt.Sprintf(
			`Invalid create args for class "%s": use either a slice or a merge function`, e.ID)
	default:
		return fmt.Sprintf("unknown error on %q", e.ID)
	}
}

// IsKind reports whether err carries an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ErrConstruct indicates the factory of a class has failed.
type ErrConstruct struct {
	Class string
	Err   error
}

func (e *ErrConstruct) Error() string {
	return fmt.Sprintf("class %q construct error: %v", e.Class, e.Err)
}

func (e *ErrConstruct) Unwrap() error {
	return e.Err
}
