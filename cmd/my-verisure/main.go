// Binary my-verisure is the command line client for Securitas Direct
// (My Verisure) alarm installations.
package main

import "github.com/efraespada/my-verisure/cmd/my-verisure/cmd"

func main() {
	cmd.Execute()
}
