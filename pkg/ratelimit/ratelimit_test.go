package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerIP_BurstExhaustion(t *testing.T) {
	l := NewPerIP(60, 2)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"), "third request in the same instant must be rejected")
}

func TestPerIP_ClientsAreIndependent(t *testing.T) {
	l := NewPerIP(60, 1)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "a different client has its own bucket")
}

func TestPerIP_DefaultsWhenMisconfigured(t *testing.T) {
	l := NewPerIP(0, 0)

	assert.True(t, l.Allow("1.2.3.4"))
}
