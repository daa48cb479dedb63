package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := NewPool(
		func() *[]int { s := make([]int, 0, 8); return &s },
		func(s *[]int) *[]int { *s = (*s)[:0]; return s },
	)
	s := p.Get()
	*s = append(*s, 1, 2, 3)
	p.Put(s)

	again := p.Get()
	assert.Empty(t, *again)
}
