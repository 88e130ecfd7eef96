package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := New(Auth, "token rejected", nil)

	assert.True(t, Is(err, Auth))
	assert.False(t, Is(err, TransientRemote))
	assert.False(t, Is(nil, Auth))
}

func TestIs_ThroughWrapping(t *testing.T) {
	inner := New(TransientRemote, "gateway timeout", errors.New("dial tcp: i/o timeout"))
	wrapped := fmt.Errorf("listing projects: %w", inner)

	assert.True(t, Is(wrapped, TransientRemote))
	assert.False(t, Is(wrapped, Auth))

	// A plain error containing the same text must not match.
	plain := errors.New(wrapped.Error())
	assert.False(t, Is(plain, TransientRemote))
}

func TestError_Message(t *testing.T) {
	err := NewHTTP(Post, "creating note", 422, `{"message":"body is blank"}`, nil)

	assert.Contains(t, err.Error(), "creating note")
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "body is blank")
}

func TestCategoryForStatus(t *testing.T) {
	assert.Equal(t, Auth, CategoryForStatus(401))
	assert.Equal(t, Auth, CategoryForStatus(403))
	assert.Equal(t, TransientRemote, CategoryForStatus(500))
	assert.Equal(t, TransientRemote, CategoryForStatus(503))
	assert.Equal(t, Post, CategoryForStatus(422))
	assert.Equal(t, Post, CategoryForStatus(404))
}
