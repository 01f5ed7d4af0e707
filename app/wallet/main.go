package main

import "github.com/mikitasolo/borwwcoin/app/wallet/cmd"

func main() {
	cmd.Execute()
}
