// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command ifetch assembles, disassembles and traces programs for the
// instruction fetch pipeline.
package main

func main() {
	Execute()
}
