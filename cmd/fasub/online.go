package main

import "fmt"

// Run executes the online command.
func (c *OnlineCmd) Run(deps *Dependencies) error {
	counts, err := deps.Client.OnlineCounts(deps.Ctx)
	if err != nil {
		return errorf(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "%d online (%d guests, %d registered, %d other)\n",
		counts.Total, counts.Guests, counts.Registered, counts.Other)
	return nil
}
