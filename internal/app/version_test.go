package app

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfo(t *testing.T) {
	t.Parallel()

	b := BuildInfo()
	assert.NotEmpty(t, b.Version)
	assert.Equal(t, runtime.Version(), b.Go)
	assert.LessOrEqual(t, len(b.Commit), 12)
}

func TestBuild_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v1.4.0", Build{Version: "v1.4.0"}.String())
	assert.Equal(t, "v1.4.0 (abc123)", Build{Version: "v1.4.0", Commit: "abc123"}.String())
}
