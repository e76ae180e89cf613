package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// prompt asks for a value, keeping the current one on empty input.
func prompt(reader *bufio.Reader, label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

// promptChoice asks for one of a fixed set of options, by number or by
// name. Empty input keeps the current value.
func promptChoice(reader *bufio.Reader, label string, options []string, current string) (string, error) {
	fmt.Printf("%s:\n", label)
	for i, opt := range options {
		marker := " "
		if opt == current {
			marker = "*"
		}
		fmt.Printf("  %s %d) %s\n", marker, i+1, opt)
	}

	for {
		if current != "" {
			fmt.Printf("Choose [%s]: ", current)
		} else {
			fmt.Print("Choose: ")
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if current != "" {
				return current, nil
			}
			continue
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(opt, line) {
				return opt, nil
			}
		}
		fmt.Println("Please pick one of the listed options.")
	}
}

// promptYesNo asks a yes/no question; defaults to no.
func promptYesNo(reader *bufio.Reader, label string) (bool, error) {
	fmt.Printf("%s (y/N): ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading input: %w", err)
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}
