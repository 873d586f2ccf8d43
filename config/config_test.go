package config_test

import (
	"os"
	"testing"

	"github.com/aegistudio/wart/config"
	"github.com/aegistudio/wart/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mailer = "example.com/app/services.Mailer"
	broken = "example.com/app/services.Broken"
	store  = "example.com/app/repositories.MemoryStore"
)

// unsetAfter removes keys set by the env files once the test
// completes, since godotenv never restores them.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, key := range keys {
			os.Unsetenv(key)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	cfg, err := config.Load("testdata/wart.yaml")
	require.NoError(t, err)
	assert.Equal([]string{
		"example.com/app/services",
		"example.com/app/repositories",
	}, cfg.Namespaces)
	assert.False(cfg.AutoResolve)
	assert.Equal(".", cfg.Separator)
	assert.Equal(map[string]string{"example.com/app.Store": store}, cfg.Aliases)
	assert.Equal([]interface{}{"smtp.example.com", 587}, cfg.CreateArgs[mailer])
	assert.Equal("bla", cfg.CreateArgs[broken])
}

func TestLoadEnvOverrides(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("WART_NAMESPACES", "a,b")
	t.Setenv("WART_ALIASES", "x=y,z=w")
	t.Setenv("WART_AUTO_RESOLVE", "true")

	cfg, err := config.Load("testdata/wart.yaml")
	require.NoError(t, err)
	assert.Equal([]string{"a", "b"}, cfg.Namespaces)
	assert.Equal(map[string]string{"x": "y", "z": "w"}, cfg.Aliases)
	assert.True(cfg.AutoResolve)
}

func TestLoadEnvFile(t *testing.T) {
	unsetAfter(t, "WART_SEPARATOR", "WART_AUTO_RESOLVE")

	cfg, err := config.Load("testdata/wart.yaml", "testdata/test.env")
	require.NoError(t, err)
	assert.Equal(t, "/", cfg.Separator)
	assert.True(t, cfg.AutoResolve)
}

func TestLoadErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"MissingFile":    {"testdata/missing.yaml"},
		"InvalidFile":    {"testdata/invalid.yaml"},
		"MissingEnvFile": {"testdata/wart.yaml", "testdata/missing.env"},
	} {
		args := args
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(args[0], args[1:]...)
			assert.Error(t, err)
		})
	}
}

func TestOptions(t *testing.T) {
	assert := assert.New(t)
	cfg, err := config.Load("testdata/wart.yaml")
	require.NoError(t, err)

	var got []interface{}
	classes := core.ClassMap{
		mailer: {
			Params: []string{"", ""},
			Factory: func(args []interface{}) (interface{}, error) {
				got = args
				return "mailer", nil
			},
		},
		broken: {
			Factory: func([]interface{}) (interface{}, error) {
				return "broken", nil
			},
		},
		store: {
			Factory: func([]interface{}) (interface{}, error) {
				return "store", nil
			},
		},
	}
	c := core.New(classes, nil, cfg.Options()...)

	_, err = c.Get("Mailer")
	assert.True(core.IsKind(err, core.KindNotDefined))

	v, err := c.Create("Mailer")
	assert.NoError(err)
	assert.Equal("mailer", v)
	assert.Equal([]interface{}{"smtp.example.com", 587}, got)

	_, err = c.Create("Broken")
	assert.True(core.IsKind(err, core.KindInvalidCreateArgs))

	v, err = c.Create("example.com/app.Store")
	assert.NoError(err)
	assert.Equal("store", v)
	assert.True(c.Has(store))
}

func TestApply(t *testing.T) {
	assert := assert.New(t)
	c := core.New(core.ClassMap{
		"example.com/app.Foo": {
			Factory: func([]interface{}) (interface{}, error) { return "foo", nil },
		},
	}, nil)

	cfg := config.Default()
	cfg.AutoResolve = false
	cfg.Apply(c)
	_, err := c.Get("example.com/app.Foo")
	assert.True(core.IsKind(err, core.KindNotDefined))

	cfg.AutoResolve = true
	cfg.Namespaces = []string{"example.com/app"}
	cfg.Apply(c)
	v, err := c.Get("Foo")
	assert.NoError(err)
	assert.Equal("foo", v)
}
