package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackPushPopPeek(t *testing.T) {
	var s Stack[int]

	_, ok := s.Pop()
	assert.False(t, ok, "Pop on empty stack should report ok=false")
	_, ok = s.Peek()
	assert.False(t, ok, "Peek on empty stack should report ok=false")

	s.Push(1)
	s.Push(2)
	s.Push(3)

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, top)
	// Peek must not remove.
	top, ok = s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, top)

	v, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	top, ok = s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, top)
}

func TestStackPopAll(t *testing.T) {
	var s Stack[string]
	s.Push("a")
	s.Push("b")

	all := s.PopAll()
	assert.Equal(t, []string{"a", "b"}, all)

	_, ok := s.Pop()
	assert.False(t, ok, "stack should be empty after PopAll")
}

func TestStackShadowing(t *testing.T) {
	// Mirrors how the parser uses Stack[ast.VarId] to shadow a name: pushing
	// a second binding for the same name must hide, not replace, the first.
	var s Stack[int]
	s.Push(10)
	s.Push(20)
	top, _ := s.Peek()
	assert.Equal(t, 20, top, "shadowing binder should be visible")

	s.Pop()
	top, _ = s.Peek()
	assert.Equal(t, 10, top, "popping the shadowing binder should reveal the outer one")
}
