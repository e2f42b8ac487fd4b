package main

import (
	"os"

	"labelforge.com/wsl/logger"
)

func main() {
	if len(os.Args) < 2 {
		println("usage: logwrap <executable> [args...]")
		os.Exit(1)
	}
	logger.WrapProcess(os.Args[1], os.Args[2:]...)
}
