package main

import "github.com/Alijeyrad/simorq_mobile/cmd"

func main() {
	cmd.Execute()
}
