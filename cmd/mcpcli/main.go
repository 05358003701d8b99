// mcpcli is an interactive client for one or more MCP tool servers, with an
// optional llama-server-backed ask mode.
package main

func main() {
	Execute()
}
