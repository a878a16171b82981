// Package main is the entry point for the backend-probe CLI.
package main

import "backend-probe/cmd"

func main() {
	cmd.Execute()
}
