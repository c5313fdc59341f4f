package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"maxResults" validate:"omitempty,min=1,max=20"`
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(&sampleRequest{Query: "कर्म", MaxResults: 5})
	require.NoError(t, err)

	err = ValidateRequest(&sampleRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Query")
	assert.Contains(t, err.Error(), "required")

	err = ValidateRequest(&sampleRequest{Query: "कर्म", MaxResults: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max")
}

func TestResponseEnvelopes(t *testing.T) {
	ok := SuccessResponse("done", map[string]int{"n": 1})
	assert.Equal(t, 200, ok.Code)
	assert.Equal(t, "success", ok.Status)
	assert.Equal(t, "done", ok.Message)

	bad := ErrorResponse(404, "not found")
	assert.Equal(t, 404, bad.Code)
	assert.Equal(t, "error", bad.Status)
	assert.Nil(t, bad.Data)
}
