// ABOUTME: Entry point for campusctl CLI
// ABOUTME: Command-line client for the CampusRentalFinder rental platform

package main

import (
	"fmt"
	"os"

	"github.com/campusrentalfinder/campusctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
