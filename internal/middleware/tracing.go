package middleware

import (
	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request. The span is renamed after
// routing to the matched pattern ("GET /post/:id/edit") and carries the post id
// and the session user once the handlers have run.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Attributes are exported after the request context is recycled.
		method := utils.CopyString(c.Method())

		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := observability.Tracer.Start(ctx, "HTTP "+method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.target", utils.CopyString(c.Path())),
				attribute.String("http.client_ip", utils.CopyString(c.IP())),
			),
		)
		defer span.End()

		c.Locals(LocalTraceID, span.SpanContext().TraceID().String())
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		if postID := c.Params("id"); postID != "" {
			span.SetAttributes(attribute.String("blog.post_id", utils.CopyString(postID)))
		}
		if uid, ok := c.Locals(LocalUserID).(uint); ok && uid != 0 {
			span.SetAttributes(
				attribute.Bool("session.authenticated", true),
				attribute.Int64("session.user_id", int64(uid)),
			)
		} else {
			span.SetAttributes(attribute.Bool("session.authenticated", false))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}
