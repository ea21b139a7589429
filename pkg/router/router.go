package router

import (
	"context"
	"net/http"

	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

// HandlerFunc serves a JSON request. Request is bound from the query string.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// WebsocketHandler owns conn until it returns.
type WebsocketHandler func(ctx context.Context, conn *websocket.Conn)

type Router struct {
	// ctx carries the configs, logger and database of every handler.
	ctx   context.Context
	inner *gin.Engine
}

func New(ctx context.Context) *Router {
	if xcontext.Configs(ctx).Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	inner := gin.New()
	inner.Use(gin.Recovery(), logRequest(ctx))
	return &Router{ctx: ctx, inner: inner}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, handler))
}

// Handle mounts a plain http handler, e.g. the metrics exporter.
func Handle(r *Router, pattern string, handler http.Handler) {
	r.inner.GET(pattern, gin.WrapH(handler))
}

func Websocket(r *Router, pattern string, handler WebsocketHandler) {
	r.inner.GET(pattern, wrapWebsocket(r, handler))
}

// Handler returns the http handler of the router. Cross origin requests are
// allowed from anywhere.
func (r *Router) Handler() http.Handler {
	return cors.AllowAll().Handler(r.inner)
}
