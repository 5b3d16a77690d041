package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "1.4.0"
	assert.Equal(t, "fio-client/1.4.0", UserAgent())
}

func TestString(t *testing.T) {
	assert.Contains(t, String(), "commit: ")
	assert.Contains(t, String(), Version)
}
