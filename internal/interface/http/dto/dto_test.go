package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal_UnmarshalJSON(t *testing.T) {
	var req UpdateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price": 10.5}`), &req))
	assert.Equal(t, "10.5", *req.PriceString())

	req = UpdateBookRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"price": "bad"}`), &req))
	assert.Equal(t, "bad", *req.PriceString())

	req = UpdateBookRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x"}`), &req))
	assert.Nil(t, req.PriceString())

	req = UpdateBookRequest{}
	assert.Error(t, json.Unmarshal([]byte(`{"price": true}`), &req))
}
