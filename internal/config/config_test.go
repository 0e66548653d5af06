package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("TEST_INT", "90")
	assert.Equal(t, 90, EnvIntDefault("TEST_INT", 720))

	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 720, EnvIntDefault("TEST_INT", 720))

	assert.Equal(t, 720, EnvIntDefault("TEST_INT_UNSET", 720))
}

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV("a,b"))
	assert.Equal(t, []string{"a", "b"}, CSV(" a , b , "))
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("TEST_STR", "x")
	assert.Equal(t, "x", EnvDefault("TEST_STR", "y"))
	assert.Equal(t, "y", EnvDefault("TEST_STR_UNSET", "y"))
}
