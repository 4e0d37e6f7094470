package domain

// Keys of the persisted client state.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
	StorageKeyCart  = "cart"
)
