package main

import "github.com/m4r13y/hawkins-ig-sub001/cmd"

func main() {
	cmd.Execute()
}
