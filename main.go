// ./main.go
package main

import (
	"github.com/xkilldash9x/surveyfill-cli/cmd"
)

func main() {
	cmd.Execute()
}
