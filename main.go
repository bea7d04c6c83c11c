package main

import "github.com/schollz/ctlmap/cmd/ctlmap"

func main() {
	ctlmap.Execute()
}
