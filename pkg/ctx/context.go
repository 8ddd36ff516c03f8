// Package ctx gives handlers a single request context with helpers for
// params, binding and the JSON envelope.
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        return
//	    }
//	    product, err := pc.products.Find(c.Context(), id)
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(product)
//	}
//
//	router.Get("/products/{id}", "product.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/bind"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/response"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter. On failure it writes
// a 404 and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Fail(apperr.New(apperr.NotFound, "Not found"))
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryBool reads a boolean query flag; anything unparsable is false.
func (c *Context) QueryBool(key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) ClientIP() string {
	return middleware.ClientIP(c.R)
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the caller resolved by middleware.Authenticate.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.IdentityFromCtx(c.R.Context())
}

// MustIdentity is Identity for routes that are always authenticated. It
// writes a 401 and returns false when the identity is missing.
func (c *Context) MustIdentity() (auth.Identity, bool) {
	id, ok := c.Identity()
	if !ok {
		c.Fail(apperr.New(apperr.Unauthorized, "Unauthorized"))
	}
	return id, ok
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On failure it writes
// a 400 or 422 and returns false.
//
//	var input ProductInput
//	if !c.BindJSON(&input) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Fail(apperr.New(apperr.BadRequest, err.Error()))
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Responses ────────────────────────────────────────────────────────────────

func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.W, cookie)
}

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends {"status":200,"data":...}.
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

// Message sends a 200 envelope carrying only a message.
func (c *Context) Message(msg string) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: msg})
}

func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Code:    string(apperr.BadRequest),
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Fail maps err to its status, code and public message. Internal errors are
// logged with the request logger and reported without detail.
func (c *Context) Fail(err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
	}
	status := kind.HTTPStatus()
	c.JSON(status, response.Envelope{
		Status:  status,
		Code:    string(kind),
		Message: apperr.PublicMessage(err),
	})
}

// WrittenStatus is the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
