package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify(t *testing.T) {
	encoded, err := Hash("changeme123")
	require.NoError(t, err)
	assert.NotContains(t, encoded, "changeme123")

	assert.True(t, Verify("changeme123", encoded))
	assert.False(t, Verify("wrong-password", encoded))
	assert.False(t, Verify("changeme123", "not-an-encoded-hash"))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("changeme123")
	require.NoError(t, err)
	b, err := Hash("changeme123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
