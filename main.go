package main

import "github.com/Norgate-AV/apc/cmd"

func main() {
	cmd.Execute()
}
