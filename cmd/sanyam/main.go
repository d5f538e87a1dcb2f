package main

import "github.com/johnholliday/sanyam-ide-sub000/app/cmd"

func main() {
	cmd.Execute()
}
