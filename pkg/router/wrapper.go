package router

import (
	"context"
	"net/http"
	"time"

	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func wrapHandler[Request, Response any](router *Router, handler HandlerFunc[Request, Response]) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req Request
		if err := ctx.BindQuery(&req); err != nil {
			writeError(ctx, http.StatusBadRequest, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(router.ctx, &req)
		if err != nil {
			writeError(ctx, http.StatusOK, err)
			return
		}

		ctx.JSON(http.StatusOK, newResponse(resp))
	}
}

func wrapWebsocket(router *Router, handler WebsocketHandler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			// The upgrader has already replied to the client.
			xcontext.Logger(router.ctx).Debugf("Cannot upgrade connection: %v", err)
			return
		}

		handler(router.ctx, conn)
	}
}

func logRequest(base context.Context) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		xcontext.Logger(base).Debugf("%s %s %d %s",
			ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start))
	}
}

func writeError(ctx *gin.Context, status int, err error) {
	ctx.JSON(status, newErrorResponse(err))
}
