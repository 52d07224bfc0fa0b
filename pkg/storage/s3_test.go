package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveKeyConvention(t *testing.T) {
	assert.Equal(t, "47000000/b40ef09b/archive.mp4", ArchiveKey("47000000", "b40ef09b"))
}
