package main

import "monthledger/cmd/client/cmd"

func main() {
	cmd.Execute()
}
