package core

import (
	"reflect"

	"go.uber.org/zap"
)

// MergeFunc merges the autowired dependencies of a class with
// custom arguments. Its result is used verbatim as the argument
// list of the constructor.
type MergeFunc func(
	args []interface{}, className string, c *Container,
) ([]interface{}, error)

// build constructs className with its dependencies resolved
// through the container and merged with the create args.
func (c *Container) build(className string) (interface{}, error) {
	class, ok := c.loader.Load(className)
	if !ok {
		return nil, &Error{Kind: KindClassNotFound, ID: className}
	}
	var args []interface{}
	for _, param := range class.Params {
		if param == "" {
			continue
		}
		dep, err := c.Get(param)
		if err != nil {
			return nil, err
		}
		args = append(args, dep)
	}
	args, err := c.mergeArgs(className, args)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("construct class",
		zap.String("class", className), zap.Int("args", len(args)))
	instance, err := class.Factory(args)
	if err != nil {
		return nil, &ErrConstruct{Class: className, Err: err}
	}
	return instance, nil
}

// mergeArgs applies the create args of className upon the
// autowired arguments. Funcs of any other signature are invalid
// create args, like any value that is not a slice.
func (c *Container) mergeArgs(
	className string, args []interface{},
) ([]interface{}, error) {
	custom, ok := c.createArgs[className]
	if !ok || custom == nil {
		return args, nil
	}
	switch custom := custom.(type) {
	case []interface{}:
		return append(args, custom...), nil
	case MergeFunc:
		return custom(args, className, c)
	case func([]interface{}, string, *Container) ([]interface{}, error):
		return custom(args, className, c)
	case func([]interface{}, string, *Container) []interface{}:
		return custom(args, className, c), nil
	}
	val := reflect.ValueOf(custom)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return nil, &Error{Kind: KindInvalidCreateArgs, ID: className}
	}
	for i := 0; i < val.Len(); i++ {
		args = append(args, val.Index(i).Interface())
	}
	return args, nil
}
