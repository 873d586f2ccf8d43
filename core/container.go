package core

import (
	"sort"

	"go.uber.org/zap"
)

// binding is the value stored for an identifier.
//
// A lazy binding is created by AutoRegister and holds no value
// yet, it is the only kind of binding that is not frozen.
type binding struct {
	value  interface{}
	frozen bool
	lazy   bool
}

type option struct {
	createArgs  map[string]interface{}
	namespaces  []string
	aliases     map[string]string
	autoResolve bool
	separator   string
	logger      *zap.Logger
}

// Option is the option for creating the container.
type Option func(*option)

// WithCreateArgs specifies the custom arguments of classes,
// see also Container.SetCreateArgs.
func WithCreateArgs(createArgs map[string]interface{}) Option {
	return func(o *option) {
		o.createArgs = createArgs
	}
}

// WithNamespaces specifies the namespaces searched in order
// when an identifier is not a class name itself.
func WithNamespaces(namespaces ...string) Option {
	return func(o *option) {
		o.namespaces = namespaces
	}
}

// WithAutoResolve toggles autowiring of unbound identifiers.
func WithAutoResolve(autoResolve bool) Option {
	return func(o *option) {
		o.autoResolve = autoResolve
	}
}

// WithAliases specifies the identifier aliases.
func WithAliases(aliases map[string]string) Option {
	return func(o *option) {
		o.aliases = aliases
	}
}

// WithSeparator specifies the namespace separator, which is
// "." by default to match qualified Go type names.
func WithSeparator(separator string) Option {
	return func(o *option) {
		o.separator = separator
	}
}

// WithLogger attaches a logger receiving debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(o *option) {
		o.logger = logger
	}
}

// Module aggregates a set of options as a single option.
func Module(opts ...Option) Option {
	return func(o *option) {
		for _, opt := range opts {
			opt(o)
		}
	}
}

// Container maps identifiers to instances, autowiring classes
// supplied by its Loader when they are requested.
//
// The container is meant to be driven by a single goroutine,
// it is not safe for concurrent use.
type Container struct {
	loader   Loader
	bindings map[string]*binding
	option
	stack resolutionStack
}

// New creates a container with the initial values bound.
func New(
	loader Loader, values map[string]interface{}, opts ...Option,
) *Container {
	o := option{
		autoResolve: true,
		separator:   ".",
	}
	Module(opts...)(&o)
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if loader == nil {
		loader = ClassMap(nil)
	}
	c := &Container{
		loader:   loader,
		bindings: make(map[string]*binding),
		option:   o,
	}
	for id, value := range values {
		c.bindings[id] = &binding{value: value, frozen: true}
	}
	return c
}

// Get returns the value bound to id, autowiring it when it is
// not bound yet and autowiring is enabled.
func (c *Container) Get(id string) (interface{}, error) {
	id = c.resolveAlias(id)
	if b, ok := c.bindings[id]; ok && !b.lazy {
		c.logger.Debug("reuse frozen service", zap.String("id", id))
		return b.value, nil
	} else if ok {
		return c.autowire(id)
	}
	if !c.autoResolve {
		return nil, &Error{Kind: KindNotDefined, ID: id}
	}
	if _, err := c.resolveClass(id); err != nil {
		return nil, &Error{Kind: KindNotDefined, ID: id}
	}
	return c.autowire(id)
}

// Set binds value to id and freezes it. A frozen id must be
// unset before it can be set again.
func (c *Container) Set(id string, value interface{}) error {
	if b, ok := c.bindings[id]; ok && b.frozen {
		return &Error{Kind: KindFrozenOverride, ID: id}
	}
	c.bindings[id] = &binding{value: value, frozen: true}
	return nil
}

// Has reports whether id is bound, no resolution is attempted.
func (c *Container) Has(id string) bool {
	_, ok := c.bindings[id]
	return ok
}

// Unset removes the binding of id if there's any.
func (c *Container) Unset(id string) {
	delete(c.bindings, id)
}

// Keys returns the bound identifiers in lexical order.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.bindings))
	for id := range c.bindings {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

// Create constructs id regardless of the autowiring switch,
// and fails when id has already been frozen.
func (c *Container) Create(id string) (interface{}, error) {
	id = c.resolveAlias(id)
	if b, ok := c.bindings[id]; ok && b.frozen {
		return nil, &Error{Kind: KindFrozenOverride, ID: id}
	}
	return c.autowire(id)
}

// AutoRegister marks className to be autowired on its first
// request, nothing is constructed now.
func (c *Container) AutoRegister(className string) error {
	if b, ok := c.bindings[className]; ok && b.frozen {
		return &Error{Kind: KindFrozenOverride, ID: className}
	}
	c.bindings[className] = &binding{lazy: true}
	return nil
}

// SetNamespaces replaces the namespaces to search.
func (c *Container) SetNamespaces(namespaces []string) {
	c.namespaces = namespaces
}

// SetAutoResolve toggles autowiring of unbound identifiers.
func (c *Container) SetAutoResolve(autoResolve bool) {
	c.autoResolve = autoResolve
}

// SetCreateArgs replaces the custom arguments of classes.
//
// Each value is either a slice of literals appended after the
// autowired dependencies, or a MergeFunc (or its error-less
// form) returning the final argument list. Funcs of any other
// signature are rejected as invalid create args.
func (c *Container) SetCreateArgs(createArgs map[string]interface{}) {
	c.createArgs = createArgs
}

// SetAliases replaces the identifier aliases.
func (c *Container) SetAliases(aliases map[string]string) {
	c.aliases = aliases
}

// autowire constructs id and binds it frozen. The identifier
// stays on the resolution stack only while it is constructed.
func (c *Container) autowire(id string) (interface{}, error) {
	if err := c.stack.enter(id); err != nil {
		c.logger.Debug("circular dependency detected",
			zap.String("id", id), zap.Strings("path", err.Path))
		return nil, err
	}
	defer c.stack.exit(id)
	className, err := c.resolveClass(id)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("autowire class",
		zap.String("id", id), zap.String("class", className))
	instance, err := c.build(className)
	if err != nil {
		return nil, err
	}
	// A merge func may have bound id while building.
	if b, ok := c.bindings[id]; ok && b.frozen {
		return nil, &Error{Kind: KindFrozenOverride, ID: id}
	}
	c.bindings[id] = &binding{value: instance, frozen: true}
	return instance, nil
}
