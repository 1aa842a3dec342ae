package main

import (
	"fmt"
	"os"
)

const (
	AppName    = "Country Capital"
	AppID      = "com.countrycapital.lookup"
	AppVersion = "1.0.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
