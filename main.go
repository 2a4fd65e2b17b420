package main

import "github.com/edgeflare/pgtables/cmd/pgtables"

func main() {
	pgtables.Main()
}
