package main

import "github.com/ValentinKolb/archbench/cmd"

func main() {
	cmd.Execute()
}
