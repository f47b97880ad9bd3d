// Package storage declares the storages used by the tracker: the offline hit queue and
// the key-value storage holding the persisted client id and disabled flag.
package storage

// OfflineQueueProducer interface should be implemented by queues accepting hit bodies
type OfflineQueueProducer interface {
	Push(body string) error
}

// OfflineQueueConsumer interface should be implemented by queues handing hit bodies back for delivery
type OfflineQueueConsumer interface {
	PopAll() []string
	Count() int64
	Empty() bool
}

// OfflineQueue is an ordered store of serialized hits waiting for connectivity
type OfflineQueue interface {
	OfflineQueueProducer
	OfflineQueueConsumer
}

// KeyValueStorage persists small string values across sessions
type KeyValueStorage interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
}
