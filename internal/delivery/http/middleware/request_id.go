package middleware

import (
	"log/slog"
	"regexp"

	deliverycontext "storefront/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// forwardableRequestID matches ids safe to pass on to the backend in the
// X-Request-Id header and to print in logs.
var forwardableRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID correlates a storefront request with the backend calls it makes.
// The inbound X-Request-Id is kept when it is forwardable, otherwise a new id
// is minted. The id is echoed on the response and stored in the request
// context, where the transport picks it up for every backend call.
func RequestID(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID, source := req.Header.Get(deliverycontext.HeaderXRequestID), "client"
			if !forwardableRequestID.MatchString(requestID) {
				if requestID != "" {
					logger.Debug("[RequestID] Replacing unforwardable request id",
						slog.Int("length", len(requestID)),
					)
				}
				requestID, source = uuid.NewString(), "storefront"
			}

			deliverycontext.SetRequestID(c, requestID)
			c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

			reqLogger := logger.With(
				slog.String("request_id", requestID),
				slog.String("request_id_source", source),
			)
			ctx := deliverycontext.WithRequestID(req.Context(), requestID)
			ctx = deliverycontext.WithLogger(ctx, reqLogger)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
