package main

import "github.com/Tiliavir/pomo/cmd"

func main() {
	cmd.Execute()
}
