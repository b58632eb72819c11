package main

import "github.com/kozaktomas/attendance-gate/cmd"

func main() {
	cmd.Execute()
}
