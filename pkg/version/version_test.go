package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())

	old := version
	t.Cleanup(func() { version = old })
	version = "v9.9.9"
	assert.Equal(t, "v9.9.9", GetVersion())
}

func TestGetCommit(t *testing.T) {
	assert.NotEmpty(t, GetCommit())

	old := commit
	t.Cleanup(func() { commit = old })
	commit = "abc123"
	assert.Equal(t, "abc123", GetCommit())
}
