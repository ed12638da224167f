package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_DefaultValues(t *testing.T) {
	assert.Equal(t, "dev", Version)
	assert.Equal(t, "dev", Commit)
	assert.Equal(t, "unknown", BuildTime)
}

func TestGet(t *testing.T) {
	info := Get("backend")
	assert.Equal(t, "backend", info.Service)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, BuildTime, info.BuildTime)
	assert.Equal(t, "backend dev (commit dev, built unknown)", info.String())
}

func TestInfo_JSON(t *testing.T) {
	raw, err := json.Marshal(Get("cli"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"service":"cli","version":"dev","commit":"dev","buildTime":"unknown"}`, string(raw))
}
