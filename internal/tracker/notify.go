package tracker

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier tells the user about idle transitions.
type Notifier interface {
	Notify(title, message string) error
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }

// BeeepNotifier shows desktop notifications.
type BeeepNotifier struct {
	AppName string
}

func (n BeeepNotifier) Notify(title, message string) error {
	if n.AppName != "" {
		beeep.AppName = n.AppName
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
