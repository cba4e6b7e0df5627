package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// PanicHook receives the recovered value and stack of a handler panic.
type PanicHook func(err any, stack []byte)

// Recovery returns middleware that turns handler panics into a 500 response
// carrying the standard error envelope. The panic and its stack are logged at
// ERROR through the request logger, falling back to logger when the request
// has none. Hooks run before the response is written.
//
// Apply it first so it covers every later middleware.
func Recovery(logger *slog.Logger, hooks ...PanicHook) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			for _, hook := range hooks {
				hook(r, stack)
			}

			ctx := c.Request.Context()

			logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
