package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, APIVersion, info.APIVersion)
}

func TestGetFullVersionString(t *testing.T) {
	assert.Equal(t, "groobi v"+Version, GetVersionString())
	assert.Contains(t, GetFullVersionString(), "commit: "+GitCommit)
}
