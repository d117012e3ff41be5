package main

import (
	"fmt"
	"os"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	workloads, err := deps.Reader.ReadWorkloads(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", c.Path, errorText(err))
		return err
	}

	classes, students := 0, 0
	for _, w := range workloads {
		classes += w.ClassifiedClasses()
		students += w.Students()
	}
	printWorkloads(deps.Stdout, workloads, 0)
	fmt.Fprintf(deps.Stdout, "%d instructors, %d classes, %d students\n", len(workloads), classes, students)
	return nil
}
