//go:build !unix

package main

import "os"

// redirectStdIO swaps the os.Stdout and os.Stderr variables; runtime panics
// still go to the original stderr.
func redirectStdIO(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
