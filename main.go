package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	flag.Parse()
	cleanup, err := ensureSingleInstance()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()
	initDebug()

	roots, err := loadRoots()
	if err == nil {
		err = validateRoots(roots)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	guard, err := NewPathGuard(roots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	dprintf("server start roots=%q serialize=%v debug=%v", guard.Roots(), *serializeFlag, debugEnabled)

	history := NewHistoryStore()
	s := setupServer(guard, history)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		dprintf("server error: %v", err)
		os.Exit(1)
	}
}
