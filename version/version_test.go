package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Contains(t, info.String(), "Version:\t"+Version)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "v1.2.0 (1a2b3c4)", Info{Version: "v1.2.0", Commit: "1a2b3c4d5e6f"}.Short())
	assert.Equal(t, "dev (none)", Info{Version: "dev", Commit: "none"}.Short())
}
