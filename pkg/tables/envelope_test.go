package tables

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeStatus(t *testing.T) {
	ok := Results([]TableInfo{})
	assert.Equal(t, http.StatusOK, ok.Status)
	assert.True(t, ok.OK())

	failed := Failure(MsgInvalidBody)
	assert.Equal(t, http.StatusInternalServerError, failed.Status)
	msg, isErr := failed.Err()
	assert.True(t, isErr)
	assert.Equal(t, MsgInvalidBody, msg)
}

func TestEnvelopeBodyHasExactlyOneKey(t *testing.T) {
	envs := []Envelope{
		Results([]TableInfo{}),
		Results([][]any{}),
		Results(MsgQueryExecutionSuccess),
		Results(nil),
		Failure(""),
		Failure(MsgQueryExecutionError + "boom"),
	}

	for _, env := range envs {
		b, err := json.Marshal(env.Body)
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(b, &doc))
		assert.Len(t, doc, 1, string(b))

		_, hasErr := doc["error"]
		_, hasResults := doc["results"]
		assert.NotEqual(t, hasErr, hasResults, string(b))
	}
}

func TestEnvelopeJSON(t *testing.T) {
	b, err := json.Marshal(Results([][]any{}).Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": []}`, string(b))

	b, err = json.Marshal(Results(nil).Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": {}}`, string(b))

	b, err = json.Marshal(Failure("").Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": ""}`, string(b))
}
