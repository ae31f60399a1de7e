package main

import "fmt"

// Run executes the latest command.
func (c *LatestCmd) Run(deps *Dependencies) error {
	id, err := deps.Client.LatestID(deps.Ctx)
	if err != nil {
		return errorf(deps, err)
	}

	fmt.Fprintln(deps.Stdout, id)
	return nil
}
