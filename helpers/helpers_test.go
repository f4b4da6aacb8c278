package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	e1, e2 := errors.New("one"), errors.New("two")
	err := FoldErrors([]error{e1, nil, e2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, e1))
	assert.True(t, errors.Is(err, e2))
	assert.Equal(t, "one\ntwo", err.Error())
}

func TestOverrideStructure(t *testing.T) {
	t.Parallel()

	type inner struct {
		A string
		B int
	}
	type outer struct {
		Name  string
		Flag  bool
		In    inner
		Ptr   *inner
		Slice []string
	}
	target := outer{Name: "default", In: inner{A: "a", B: 1}, Ptr: &inner{A: "pa", B: 2}}
	override := outer{Flag: true, In: inner{B: 5}, Ptr: &inner{A: "pz"}, Slice: []string{"x"}}
	OverrideStructure(&target, &override)
	assert.Equal(t, outer{
		Name:  "default",
		Flag:  true,
		In:    inner{A: "a", B: 5},
		Ptr:   &inner{A: "pz", B: 2},
		Slice: []string{"x"},
	}, target)

	var empty outer
	OverrideStructure(&empty, &outer{Ptr: &inner{B: 3}})
	assert.Equal(t, &inner{B: 3}, empty.Ptr)
}

func TestConfigDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ConfigDefaultInt(0, 7))
	assert.Equal(t, 3, ConfigDefaultInt(3, 7))
	assert.Equal(t, "x", ConfigDefaultStr("", "x"))
	assert.Equal(t, 60*time.Second, IntSecondConfigDefault(0, 60))
	assert.Equal(t, 1500*time.Microsecond, IntMicrosecond(1500))
	assert.Equal(t, 40*time.Millisecond, IntMillisecond(40))
}
