// funcall runs a single tool-calling generation against a llama-server and
// executes any shell_command invocations locally.
package main

func main() {
	Execute()
}
