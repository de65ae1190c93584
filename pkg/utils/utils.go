package utils

import "log"

// GoSafe runs fn in a new goroutine, recovering and logging any panic so a
// background worker cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic in goroutine: %v", r)
			}
		}()
		fn()
	}()
}
