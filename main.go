// main.go
package main

import "knowledge-assistant/cmd"

func main() {
	cmd.Execute()
}
