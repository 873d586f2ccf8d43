package wart

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aegistudio/wart/core"
)

var typeError = reflect.TypeOf((*error)(nil)).Elem()

// TypeName returns the qualified name of the type of v, which
// is the class name or dependency identifier of that type.
//
// Pointers are dereferenced once, so that both &Foo{} and
// (*FooInterface)(nil) yield the name of the pointed type. A
// reflect.Type is taken as the type itself.
func TypeName(v interface{}) string {
	typ, ok := v.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(v)
	}
	if typ == nil {
		return ""
	}
	if typ.Kind() == reflect.Ptr && typ.Elem().Name() != "" {
		typ = typ.Elem()
	}
	return typeName(typ)
}

func typeName(typ reflect.Type) string {
	if typ.Name() == "" || typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}

// dependencyName returns the identifier of a parameter type,
// or empty string if it is not a dependency.
func dependencyName(typ reflect.Type) string {
	switch typ.Kind() {
	case reflect.Ptr:
		elem := typ.Elem()
		if elem.Name() != "" && elem.PkgPath() != "" {
			return typeName(elem)
		}
	case reflect.Interface:
		if typ.Name() != "" && typ.PkgPath() != "" {
			return typeName(typ)
		}
	}
	return ""
}

// Registry is the collection of classes built from golang
// constructor functions. It serves as the core.Loader of
// containers created by New.
type Registry struct {
	classes core.ClassMap
}

// NewRegistry creates a registry providing the constructors.
func NewRegistry(ctors ...interface{}) *Registry {
	r := &Registry{classes: make(core.ClassMap)}
	return r.Provide(ctors...)
}

// Provide a series of functions as constructors.
//
// The class name of each constructor is derived from its
// first result, which must be a named type or a pointer to
// one. The function can return an error as last result
// optionally.
func (r *Registry) Provide(ctors ...interface{}) *Registry {
	for _, ctor := range ctors {
		val := reflect.ValueOf(ctor)
		if val.Kind() != reflect.Func {
			panic(fmt.Sprintf("invalid non-func %T provided", ctor))
		}
		if val.Type().NumOut() == 0 {
			panic(fmt.Sprintf("func %T must provide result", ctor))
		}
		ret := val.Type().Out(0)
		if ret.Kind() == reflect.Ptr {
			ret = ret.Elem()
		}
		if ret.Name() == "" || ret.PkgPath() == "" {
			panic(fmt.Sprintf("func %T must provide a named type", ctor))
		}
		r.ProvideAs(typeName(ret), ctor)
	}
	return r
}

// ProvideAs registers ctor under the specified class name.
func (r *Registry) ProvideAs(name string, ctor interface{}) *Registry {
	val := reflect.ValueOf(ctor)
	if val.Kind() != reflect.Func {
		panic(fmt.Sprintf("invalid non-func %T provided", ctor))
	}
	typ := val.Type()
	if typ.IsVariadic() {
		panic(fmt.Sprintf("variadic func %T is not supported", ctor))
	}
	numRets := typ.NumOut()
	returnsError := false
	if numRets > 0 && typ.Out(numRets-1) == typeError {
		returnsError = true
		numRets--
	}
	if numRets != 1 {
		panic(fmt.Sprintf("func %T must provide exactly one result", ctor))
	}
	var params []string
	numArgs := typ.NumIn()
	for i := 0; i < numArgs; i++ {
		params = append(params, dependencyName(typ.In(i)))
	}
	r.classes[name] = &core.Class{
		Params: params,
		Factory: func(args []interface{}) (interface{}, error) {
			in, err := convertArgs(typ, args)
			if err != nil {
				return nil, err
			}
			out := val.Call(in)
			if returnsError {
				if err, _ := out[len(out)-1].Interface().(error); err != nil {
					return nil, err
				}
			}
			return out[0].Interface(), nil
		},
	}
	return r
}

// Load implements core.Loader.
func (r *Registry) Load(className string) (*core.Class, bool) {
	if r == nil {
		return nil, false
	}
	return r.classes.Load(className)
}

// Classes returns the registered class names in order.
func (r *Registry) Classes() []string {
	var names []string
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// convertArgs fits the positional arguments into the input of
// the constructor. Missing or nil arguments are zero values,
// and the arguments beyond the arity are dropped.
func convertArgs(typ reflect.Type, args []interface{}) ([]reflect.Value, error) {
	in := make([]reflect.Value, typ.NumIn())
	for i := range in {
		paramTyp := typ.In(i)
		if i >= len(args) || args[i] == nil {
			in[i] = reflect.Zero(paramTyp)
			continue
		}
		arg := reflect.ValueOf(args[i])
		switch {
		case arg.Type().AssignableTo(paramTyp):
		case convertible(arg.Type(), paramTyp):
			arg = arg.Convert(paramTyp)
		default:
			return nil, fmt.Errorf(
				"argument #%d: cannot use %s as %s", i, arg.Type(), paramTyp)
		}
		in[i] = arg
	}
	return in, nil
}

// convertible only permits conversions preserving the meaning
// of the value, so that an int never turns into a rune string.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return from.Kind() == to.Kind() || (isNumeric(from) && isNumeric(to))
}

func isNumeric(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
