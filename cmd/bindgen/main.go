package main

import (
	"os"

	"github.com/teranos/bindgen/cmd/bindgen/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
