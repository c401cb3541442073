package cache

import "time"

// Event names dispatched on the cache bus.
const (
	EventKeyFound    = "cache.key_found"
	EventKeyNotFound = "cache.key_not_found"
	EventKeyWritten  = "cache.key_written"
	EventKeyAdded    = "cache.key_added"
	EventKeyRemoved  = "cache.key_removed"
	EventKeysCleared = "cache.keys_cleared"
)

// KeyFound is sent when Get found a value. Key is relative to Namespace,
// as in every cache event.
type KeyFound struct {
	Namespace string
	Key       string
}

func (KeyFound) Name() string { return EventKeyFound }

// KeyNotFound is sent when Get found nothing for Key.
type KeyNotFound struct {
	Namespace string
	Key       string
}

func (KeyNotFound) Name() string { return EventKeyNotFound }

// KeyWritten is sent after Set stored a value.
type KeyWritten struct {
	Namespace string
	Key       string
	TTL       time.Duration
}

func (KeyWritten) Name() string { return EventKeyWritten }

// KeyAdded is sent when Add stored a value the cache did not hold yet.
type KeyAdded struct {
	Namespace string
	Key       string
	TTL       time.Duration
}

func (KeyAdded) Name() string { return EventKeyAdded }

// KeyRemoved is sent for each key passed to Delete.
type KeyRemoved struct {
	Namespace string
	Key       string
}

func (KeyRemoved) Name() string { return EventKeyRemoved }

// KeysCleared is sent after Clear removed every key under Namespace.
type KeysCleared struct {
	Namespace string
}

func (KeysCleared) Name() string { return EventKeysCleared }
