package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain_FirstSeenOrder(t *testing.T) {
	d := NewDomain("component")

	assert.Equal(t, 0, d.Index("Transform"))
	assert.Equal(t, 1, d.Index("Velocity"))
	assert.Equal(t, 0, d.Index("Transform"), "repeat lookups are stable")
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"Transform", "Velocity"}, d.Names())
	assert.Equal(t, []string{"Velocity", "Transform"}, d.Names(1, 0))
}

func TestDomain_NFC(t *testing.T) {
	d := NewDomain("component")
	composed := d.Index("Caf\u00e9")
	decomposed := d.Index("Cafe\u0301")

	assert.Equal(t, composed, decomposed)
	assert.Equal(t, 1, d.Len())
}

func TestDomain_Lookup(t *testing.T) {
	d := NewDomain("resource")
	d.Index("Time")

	i, ok := d.Lookup("Time")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = d.Lookup("Score")
	assert.False(t, ok)
	assert.Equal(t, 1, d.Len(), "lookup never assigns")
}

func TestDomain_NameErrors(t *testing.T) {
	d := NewDomain("resource")
	_, err := d.Name(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource index 0 not assigned")
	assert.Panics(t, func() { d.MustName(-1) })
}

func TestRegistry_IndependentDomains(t *testing.T) {
	r := New()
	r.Seed([]string{"A", "B"}, []string{"Time"})

	assert.Equal(t, 1, r.Components.Index("B"))
	assert.Equal(t, 0, r.Resources.Index("Time"))
	assert.Equal(t, 1, r.Resources.Index("A"), "resource A is not component A")
	assert.Equal(t, "component", r.Components.Kind())
}
