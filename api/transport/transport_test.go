package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/domain"
)

func TestEnvelope_JSONShape(t *testing.T) {
	assert.JSONEq(t, `{"success":true,"message":"Task deleted successfully","data":null}`,
		NewSuccess("Task deleted successfully", nil).String())
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"id":"1"}}`,
		NewSuccess("ok", map[string]string{"id": "1"}).String())
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`,
		NewError("Route not found").String())
}

func TestDecode(t *testing.T) {
	var in TaskUpdateRequest
	require.NoError(t, Decode([]byte("  "), &in))
	assert.Nil(t, in.Title)

	require.NoError(t, Decode([]byte(`{"title":"x","status":"completed"}`), &in))
	require.NotNil(t, in.Title)
	assert.Equal(t, "x", *in.Title)
	assert.Equal(t, domain.TaskStatusCompleted, *in.Status)

	err := Decode([]byte(`{"title":`), &in)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestTaskQueryFromArgs(t *testing.T) {
	var args fasthttp.Args
	args.Parse("status=pending&sortBy=dueDate&order=asc&from=2025-01-01&to=2025-01-31")

	raw := TaskQueryFromArgs(&args)
	assert.Equal(t, domain.RawTaskQuery{
		Status: "pending",
		SortBy: "dueDate",
		Order:  "asc",
		From:   "2025-01-01",
		To:     "2025-01-31",
	}, raw)
}
