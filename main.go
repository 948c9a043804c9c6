package main

import "github.com/frahmantamala/correspondence-management/cmd"

func main() {
	cmd.Execute()
}
