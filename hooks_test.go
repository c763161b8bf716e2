package wiring

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Addr    string        `di.inject:"SERVER_ADDR"`
	Port    int           `di.inject:""`
	Timeout time.Duration `di.inject:"TIMEOUT"`
}

type wheelOnly struct {
	Wheel *wheel `di.inject:""`
}

type envConfig struct {
	Addr    string        `di.inject:"WIRING_TEST_ADDR"`
	Port    int           `di.inject:"WIRING_TEST_PORT"`
	Timeout time.Duration `di.inject:"WIRING_TEST_TIMEOUT"`
	Debug   bool          `di.inject:"WIRING_TEST_DEBUG"`
}

func mapProvider(values map[string]any) LiteralProvider {
	return func(key string, _ reflect.Type) (any, bool, error) {
		v, ok := values[key]
		return v, ok, nil
	}
}

func TestLiteralProvider_InjectsScalars(t *testing.T) {
	injector := NewInjector(NewRegistry(), WithLiteralProvider(mapProvider(map[string]any{
		"SERVER_ADDR": "localhost:9000",
		"Port":        int64(9090),
		"TIMEOUT":     2 * time.Second,
	})))

	cfg, err := ResolveAs[*serverConfig](injector)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLiteralProvider_NotFoundFallsBackToResolve(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterConstructor(func() string { return "fallback:80" }))
	injector := NewInjector(reg, WithLiteralProvider(mapProvider(map[string]any{
		"Port":    80,
		"TIMEOUT": time.Second,
	})))

	cfg, err := ResolveAs[*serverConfig](injector)
	require.NoError(t, err)
	assert.Equal(t, "fallback:80", cfg.Addr)
}

func TestLiteralProvider_NotInstalled_MissingDependency(t *testing.T) {
	_, err := ResolveAs[*serverConfig](NewInjector(NewRegistry()))
	require.ErrorIs(t, err, ErrInjection)
	assert.ErrorIs(t, err, ErrConstruction)
	assert.Contains(t, err.Error(), "field wiring.serverConfig.Addr")
}

func TestLiteralProvider_ErrorPropagates(t *testing.T) {
	injector := NewInjector(NewRegistry(), WithLiteralProvider(func(string, reflect.Type) (any, bool, error) {
		return nil, false, errors.New("boom")
	}))

	_, err := ResolveAs[*serverConfig](injector)
	require.ErrorIs(t, err, ErrInjection)
	assert.Contains(t, err.Error(), "literal provider error for 'SERVER_ADDR'")
	assert.Contains(t, err.Error(), "boom")
}

func TestLiteralProvider_NotUsed_ForNonScalarDependencies(t *testing.T) {
	injector := NewInjector(NewRegistry(), WithLiteralProvider(func(key string, targetType reflect.Type) (any, bool, error) {
		t.Fatalf("literal provider should not be used for non-scalar dependencies: key=%s, type=%v", key, targetType)
		return nil, false, nil
	}))

	w, err := ResolveAs[*wheelOnly](injector)
	require.NoError(t, err)
	assert.NotNil(t, w.Wheel)
}

func TestLiteralProvider_WrongLiteralType(t *testing.T) {
	injector := NewInjector(NewRegistry(), WithLiteralProvider(mapProvider(map[string]any{
		"SERVER_ADDR": 8080,
	})))

	_, err := ResolveAs[*serverConfig](injector)
	require.ErrorIs(t, err, ErrInjection)
	assert.Contains(t, err.Error(), "cannot be used as string")
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEnvLiteralProvider_ReadsFilesAndEnvironment(t *testing.T) {
	path := writeEnvFile(t, "WIRING_TEST_ADDR=localhost:7000\nWIRING_TEST_PORT=7001\nWIRING_TEST_TIMEOUT=1m30s\n")
	t.Setenv("WIRING_TEST_PORT", "7002")
	t.Setenv("WIRING_TEST_DEBUG", "true")

	provider, err := EnvLiteralProvider(path)
	require.NoError(t, err)

	cfg, err := ResolveAs[*envConfig](NewInjector(NewRegistry(), WithLiteralProvider(provider)))
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Addr)
	assert.Equal(t, 7002, cfg.Port, "process environment wins over .env files")
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)

	_, set := os.LookupEnv("WIRING_TEST_ADDR")
	assert.False(t, set, "reading .env files must not modify the environment")
}

func TestEnvLiteralProvider_ParseError(t *testing.T) {
	path := writeEnvFile(t, "WIRING_TEST_ADDR=localhost:7000\nWIRING_TEST_PORT=seventy\n")

	provider, err := EnvLiteralProvider(path)
	require.NoError(t, err)

	_, err = ResolveAs[*envConfig](NewInjector(NewRegistry(), WithLiteralProvider(provider)))
	require.ErrorIs(t, err, ErrInjection)
	assert.Contains(t, err.Error(), "parsing WIRING_TEST_PORT")
}

func TestEnvLiteralProvider_MissingFile(t *testing.T) {
	_, err := EnvLiteralProvider(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading env files")
}

func TestEnvLiteralProvider_NotFound(t *testing.T) {
	provider, err := EnvLiteralProvider()
	require.NoError(t, err)

	v, found, err := provider("WIRING_TEST_SURELY_UNSET", reflect.TypeOf(""))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

type portNumber uint16

func TestParseLiteral(t *testing.T) {
	v, err := parseLiteral("0x1F", reflect.TypeOf(int(0)))
	require.NoError(t, err)
	assert.Equal(t, 31, v)

	v, err = parseLiteral("443", reflect.TypeOf(portNumber(0)))
	require.NoError(t, err)
	assert.Equal(t, portNumber(443), v)

	_, err = parseLiteral("300", reflect.TypeOf(uint8(0)))
	require.Error(t, err)

	v, err = parseLiteral("2.5", reflect.TypeOf(float32(0)))
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	v, err = parseLiteral("1+2i", reflect.TypeOf(complex128(0)))
	require.NoError(t, err)
	assert.Equal(t, complex(1, 2), v)

	_, err = parseLiteral("a,b", reflect.TypeOf([]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported literal type")
}

func TestConvertLiteral(t *testing.T) {
	v, err := convertLiteral(int32(5), reflect.TypeOf(int64(0)))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	_, err = convertLiteral(65, reflect.TypeOf(""))
	require.Error(t, err)

	_, err = convertLiteral("65", reflect.TypeOf(0))
	require.Error(t, err)

	_, err = convertLiteral(nil, reflect.TypeOf(""))
	require.Error(t, err)
}
