package main

import "github.com/masmgr/commitwalk/cmd"

func main() {
	cmd.Run()
}
