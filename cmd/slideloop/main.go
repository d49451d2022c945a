package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

var version = "dev"

// notifySignals cancel the command context; SIGKILL cannot be trapped.
var notifySignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	root := newRootCommand()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(notifySignals...),
	); err != nil {
		os.Exit(1)
	}
}
