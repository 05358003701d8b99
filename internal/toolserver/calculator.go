package toolserver

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate computes a binary arithmetic expression of the form "a op b"
// where op is one of + - * /.
func Evaluate(expr string) (float64, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return 0, fmt.Errorf("invalid expression %q, expected 'a op b'", expr)
	}

	a, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q", fields[0])
	}
	b, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q", fields[2])
	}

	switch fields[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("invalid operator %q", fields[1])
	}
}
