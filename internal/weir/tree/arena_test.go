package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Arena_GrowsAndKeepsPointersStable(t *testing.T) {
	assert := assert.New(t)

	a := newArena()
	var ptrs []*Node
	for i := 0; i < 200; i++ {
		n := a.alloc()
		n.Rule.Priority = i
		ptrs = append(ptrs, n)
	}

	assert.Equal(200, a.size())
	for i, p := range ptrs {
		assert.Equal(i, p.Rule.Priority, "block growth must never invalidate a previously-returned pointer")
	}
}
