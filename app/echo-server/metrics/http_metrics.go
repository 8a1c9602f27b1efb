package metrics

import (
	"errors"
	"strconv"
	"time"

	"ecomStore/domain"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "Latency of HTTP requests by route",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

func Init() {
	prometheus.MustRegister(RequestDuration)
}

// Middleware observes every request under its registered route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = domain.HTTPStatus(err)
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			RequestDuration.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
