package domain

import "context"

// KV is the persistence adapter: a synchronous key-value store holding
// opaque values. A missing key is (nil, false, nil).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RatesClient fetches a raw exchange-rate payload for base->quote.
type RatesClient interface {
	GetRate(ctx context.Context, base, quote string) (map[string]any, error)
}

// Clipboard receives plain-text payloads for the user to paste elsewhere.
type Clipboard interface {
	WriteAll(text string) error
}

// Notifier delivers a reminder once its time comes.
type Notifier interface {
	Notify(r Reminder)
}
