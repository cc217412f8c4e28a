//go:build windows
// +build windows

package main

import "os"

var signals = []os.Signal{
	os.Interrupt,
}
