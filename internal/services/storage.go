package services

// Storage is the key/value space one browser session owns, in the shape of
// the web localStorage API.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// StorageFunc returns the storage for a session id.
type StorageFunc func(sid string) Storage

const (
	CartStorageKey = "shopdemo_cart"
	AuthStorageKey = "shopdemo_auth_user"
)
