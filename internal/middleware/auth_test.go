package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/pkg/httpcontext"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func guarded(t *testing.T, authorization string) (*fasthttp.RequestCtx, bool) {
	t.Helper()
	reached := false
	h := JWTAuth(stubVerifier{"good": "user-1"}, nil)(func(ctx *fasthttp.RequestCtx) {
		reached = true
		assert.Equal(t, "user-1", httpcontext.UserID(ctx))
	})

	var ctx fasthttp.RequestCtx
	if authorization != "" {
		ctx.Request.Header.Set(fasthttp.HeaderAuthorization, authorization)
	}
	h(&ctx)
	return &ctx, reached
}

func message(t *testing.T, ctx *fasthttp.RequestCtx) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestJWTAuth(t *testing.T) {
	ctx, reached := guarded(t, "Bearer good")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	_, reached = guarded(t, "bearer good")
	assert.True(t, reached, "scheme is case-insensitive")

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "Access denied. No token provided."},
		{"wrong scheme", "Basic good", "Access denied. No token provided."},
		{"empty bearer", "Bearer ", "Access denied. No token provided."},
		{"unknown token", "Bearer forged", "Invalid or expired token."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, reached := guarded(t, tt.header)
			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
			assert.Equal(t, tt.want, message(t, ctx))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	reached := false
	h := CORS("https://app.example.com")(func(*fasthttp.RequestCtx) { reached = true })

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(http.MethodOptions)
	h(&ctx)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "https://app.example.com", string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
	assert.Contains(t, string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowMethods)), "DELETE")
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	h := Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mark("outer"), mark("inner"))
	h(&fasthttp.RequestCtx{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
