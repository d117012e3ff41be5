package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clsgin "github.com/fwojciec/classload/gin"
)

// Run executes the serve command. It blocks until the context is cancelled
// or the process receives SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := clsgin.NewServer()
	s.Addr = c.Addr
	s.Scraper = deps.Scraper
	s.RunService = deps.Runs
	s.ReportWriter = deps.Writer
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down")
	return s.Close()
}
