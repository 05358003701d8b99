// mcpagent serves the calculator and shell tools over MCP streamable HTTP.
package main

func main() {
	Execute()
}
