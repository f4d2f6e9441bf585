package transport

import (
	"bytes"
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/domain"
)

type (
	SignupRequest        = domain.SignupInput
	LoginRequest         = domain.LoginInput
	ProfileUpdateRequest = domain.ProfileUpdateInput
	TaskCreateRequest    = domain.CreateTaskInput
	TaskUpdateRequest    = domain.UpdateTaskInput
)

// Decode unmarshals a JSON body into dst. An empty body decodes as {}.
func Decode(body []byte, dst interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	return nil
}

// TaskQueryFromArgs reads the list filters from the query string.
func TaskQueryFromArgs(args *fasthttp.Args) domain.RawTaskQuery {
	return domain.RawTaskQuery{
		Status: string(args.Peek("status")),
		SortBy: string(args.Peek("sortBy")),
		Order:  string(args.Peek("order")),
		From:   string(args.Peek("from")),
		To:     string(args.Peek("to")),
	}
}
