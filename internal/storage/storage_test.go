package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityObjectKey(t *testing.T) {
	a := ActivityObjectKey("65f0c0ffee", "Morning Ride.FIT")
	b := ActivityObjectKey("65f0c0ffee", "Morning Ride.FIT")

	assert.True(t, strings.HasPrefix(a, "activities/65f0c0ffee/"))
	assert.True(t, strings.HasSuffix(a, ".fit"))
	assert.NotEqual(t, a, b)

	assert.True(t, strings.HasSuffix(ActivityObjectKey("x", "upload"), ".fit"))
}
