package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/blogmath/lang"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string
	argIndex int  // current argument index (0-based)
	inCall   bool // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's argument list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	// Find the unmatched '(' before the cursor.
	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++

		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	// A parenthesized expression has no name before its '('.
	nameEnd := open
	for nameEnd > 0 && input[nameEnd-1] == ' ' {
		nameEnd--
	}

	nameStart := nameEnd
	for nameStart > 0 && isWordByte(input[nameStart-1]) {
		nameStart--
	}

	name := input[nameStart:nameEnd]
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return functionCall{}
	}

	// Count commas at depth 0 to find the current argument.
	argIndex := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(':
			depth++

		case ')':
			depth--

		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signatureOf returns the signature of the named function and its parameter
// names, or an empty signature if no such function is declared. A variadic
// function has the single parameter "...".
func signatureOf(c *lang.Context, name string) (string, []string) {
	fn, err := c.LookupFunction(name)
	if err != nil {
		return "", nil
	}

	signature := fn.Signature()

	open := strings.Index(signature, "(")
	closing := strings.LastIndex(signature, ")")

	if open < 0 || closing < open {
		return signature, nil
	}

	inner := strings.TrimSpace(signature[open+1 : closing])
	if inner == "" {
		return signature, nil
	}

	params := strings.Split(inner, ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}

	return signature, params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every later argument.
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
