package main

import "github.com/scipunch/fbdaily/cmd"

func main() {
	cmd.Execute()
}
