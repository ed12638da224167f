package contextutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Count int    `validate:"gte=0,lte=100"`
	Op    string `validate:"required,oneof=+ -"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleInput{Count: 3, Op: "+"}))
	assert.NoError(t, ValidateStruct(&sampleInput{Count: 0, Op: "-"}))

	err := ValidateStruct(sampleInput{Count: -1, Op: "*"})
	require.Error(t, err)
	assert.True(t, IsError(err, ErrValidationFailed))
	assert.Contains(t, err.Error(), "Count failed gte=0")
	assert.Contains(t, err.Error(), "Op failed oneof=+ -")

	err = ValidateStruct(sampleInput{Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Op failed required")
}
