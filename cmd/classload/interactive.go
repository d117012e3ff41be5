package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/classload"
)

// Run executes the interactive command.
func (c *InteractiveCmd) Run(deps *Dependencies) error {
	cfg, ok, err := promptRunConfig(deps.Stdin, deps.Stdout)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", classload.ErrorMessage(err))
		return err
	}
	if !ok {
		fmt.Fprintln(deps.Stdout, "Operation cancelled.")
		return nil
	}
	return executeRun(deps, cfg)
}

// promptRunConfig asks for the run settings one line at a time. It returns
// ok=false when the user declines the final confirmation.
func promptRunConfig(in io.Reader, out io.Writer) (classload.RunConfig, bool, error) {
	p := &prompter{scanner: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "SF State class schedule workload report")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Term (4 digits: year code + session, 1=Fall 2=Spring 3=Summer 4=Winter), e.g. 2253")
	term, err := p.ask("Enter term: ")
	if err != nil {
		return classload.RunConfig{}, false, err
	}
	draft := classload.NewRunConfig(term, "XX", "", "")
	if err := draft.Validate(); err != nil {
		return classload.RunConfig{}, false, err
	}

	fmt.Fprintln(out, "Subject (department code), e.g. FIN, ACCT, MKTG")
	subject, err := p.ask("Enter subject: ")
	if err != nil {
		return classload.RunConfig{}, false, err
	}
	draft = classload.NewRunConfig(term, subject, "", "")
	if err := draft.Validate(); err != nil {
		return classload.RunConfig{}, false, err
	}

	fmt.Fprintln(out, "Class category, e.g. REG (regular session) or EXT (extended education)")
	category, err := p.ask(fmt.Sprintf("Enter class category [%s]: ", classload.DefaultCategory))
	if err != nil {
		return classload.RunConfig{}, false, err
	}

	output, err := p.ask(fmt.Sprintf("Output file [%s]: ", draft.OutputPath))
	if err != nil {
		return classload.RunConfig{}, false, err
	}

	cfg := classload.NewRunConfig(term, subject, category, output)
	if err := cfg.Validate(); err != nil {
		return classload.RunConfig{}, false, err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Term:           %s (%s)\n", cfg.Term, cfg.Session())
	fmt.Fprintf(out, "Subject:        %s\n", cfg.Subject)
	fmt.Fprintf(out, "Class category: %s\n", cfg.Category)
	fmt.Fprintf(out, "Output file:    %s\n", cfg.OutputPath)

	answer, err := p.ask("Continue with this configuration? [Y/n]: ")
	if err != nil {
		return classload.RunConfig{}, false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return cfg, true, nil
	}
	return cfg, false, nil
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// ask prints label and returns the next trimmed input line.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", classload.Errorf(classload.EINVALID, "input ended before all settings were entered")
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}
