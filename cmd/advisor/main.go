package main

import (
	"fmt"
	"log"
	"os"

	"StockAdvisor/internal/display"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, display.Error(err.Error()))
		os.Exit(1)
	}
}
