package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateVerify(t *testing.T) {
	gate, err := NewGate("supersecret")
	assert.NoError(t, err)

	assert.True(t, gate.Verify("supersecret"))
	assert.False(t, gate.Verify("wrong"))
	assert.False(t, gate.Verify(""))
	assert.False(t, gate.Verify("supersecret "))
}

func TestGateSaltsDiffer(t *testing.T) {
	a, _ := NewGate("same")
	b, _ := NewGate("same")
	assert.NotEqual(t, a.digest, b.digest, "fresh salt per gate")
}
