package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		stop()
		os.Exit(1)
	}

	code := execute(ctx, &app{
		cwd:    cwd,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, os.Args[1:])
	stop()
	os.Exit(code)
}
