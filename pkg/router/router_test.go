package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/liveserver/pkg/router"
)

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_Verbs(t *testing.T) {
	r := router.New()
	r.Get("/", "home", text("Hello World!"))
	r.Post("items", "items.create", text("created"))
	r.Delete("/items/{id}", "items.delete", text("deleted"))
	r.Handle("options", "/items", "", text("opts"))

	assert.Equal(t, "Hello World!", serve(r, http.MethodGet, "/").Body.String())
	assert.Equal(t, "created", serve(r, http.MethodPost, "/items").Body.String())
	assert.Equal(t, "deleted", serve(r, http.MethodDelete, "/items/7").Body.String())
	assert.Equal(t, "opts", serve(r, http.MethodOptions, "/items").Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodPut, "/").Code)
}

func TestRouter_GroupMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	api := r.Group("/api/", tag("group"))
	v1 := api.Group("v1", tag("nested"))
	v1.Get("/ping", "ping", text("pong"), tag("route"))

	rec := serve(r.Handler(), http.MethodGet, "/api/v1/ping")
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, []string{"group", "nested", "route"}, order)

	path, ok := r.Path("ping")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/ping", path)
}

func TestRouter_URL(t *testing.T) {
	r := router.New()
	r.Get("/users/{id}/posts/{post}", "post.show", text(""))

	url, err := r.URL("post.show", map[string]string{"id": "1", "post": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/users/1/posts/9", url)

	_, err = r.URL("post.show", map[string]string{"id": "1"})
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRouter_Routes(t *testing.T) {
	r := router.New()
	r.Post("/b", "b.create", text(""))
	r.Get("/b", "b.index", text(""))
	r.Get("/a", "", text(""))
	r.HandleFunc("/metrics", text(""))

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/a"},
		{Method: http.MethodGet, Path: "/b", Name: "b.index"},
		{Method: http.MethodPost, Path: "/b", Name: "b.create"},
		{Method: "*", Path: "/metrics"},
	}, r.Routes())
}
