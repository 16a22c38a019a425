package redisx

import "time"

const (
	// Order lookup cache: order_info:{order_id} -> OrderInformation JSON
	KeyOrderInfo = "order_info:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderInfo = 5 * time.Minute
	TTLDedup     = 48 * time.Hour
)
