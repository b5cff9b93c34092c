package models

// Action is a button attached to a notification banner.
type Action struct {
	Key   string
	Label string
	Run   func() error
}
