package orders

import "ecomStore/domain"

var validNext = map[string]map[string]bool{
	domain.OrderStatusPending:    {domain.OrderStatusProcessing: true, domain.OrderStatusCancelled: true},
	domain.OrderStatusProcessing: {domain.OrderStatusShipped: true, domain.OrderStatusCancelled: true},
	domain.OrderStatusShipped:    {domain.OrderStatusDelivered: true},
	domain.OrderStatusDelivered:  {},
	domain.OrderStatusCancelled:  {},
}

func IsValidStatus(status string) bool {
	_, ok := validNext[status]
	return ok
}

func CanTransition(from, to string) bool {
	return validNext[from][to]
}
