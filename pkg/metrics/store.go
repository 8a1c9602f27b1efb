package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Orders committed by checkout
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	CheckoutFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts rejected, by reason",
	}, []string{"reason"})

	OTPIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "otp_issued_total",
		Help: "Total number of verification codes issued",
	})
)

func Init() {
	prometheus.MustRegister(
		OrdersPlaced,
		CheckoutFailures,
		OTPIssued,
	)
}
