package core

import (
	"strings"

	"go.uber.org/zap"
)

// resolveAlias rewrites id if it is aliased. Aliases are only
// followed for a single hop, the target is taken literally.
func (c *Container) resolveAlias(id string) string {
	if target, ok := c.aliases[id]; ok {
		c.logger.Debug("resolve alias",
			zap.String("id", id), zap.String("target", target))
		return target
	}
	return id
}

// resolveClass finds the class name denoted by id, trying id
// itself and then id under each namespace in order.
func (c *Container) resolveClass(id string) (string, error) {
	if _, ok := c.loader.Load(id); ok {
		return id, nil
	}
	for _, namespace := range c.namespaces {
		candidate := c.qualify(namespace, id)
		if _, ok := c.loader.Load(candidate); ok {
			return candidate, nil
		}
	}
	return "", &Error{Kind: KindClassNotFound, ID: id}
}

func (c *Container) qualify(namespace, id string) string {
	sep := c.separator
	return strings.TrimSuffix(namespace, sep) + sep + strings.TrimPrefix(id, sep)
}
