// Package input parses the TUI prompt line.
package input

import "strings"

// Command is a parsed prompt line. Lines without a leading slash have an
// empty Name and carry the whole text in Arg.
type Command struct {
	Name string
	Arg  string
}

// ParseCommand splits "/name rest of line" into its parts.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{Arg: line}
	}
	name, arg, _ := strings.Cut(line, " ")
	return Command{Name: strings.ToLower(name), Arg: strings.TrimSpace(arg)}
}

// Spec documents one slash command.
type Spec struct {
	Name        string
	Description string
}

// Catalog is the ordered list of slash commands the prompt offers.
type Catalog []Spec

// Names returns the command names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

// Match returns the commands whose name starts with line. Only a bare
// "/prefix" with no argument yet is matched.
func (c Catalog) Match(line string) Catalog {
	prefix := strings.ToLower(strings.TrimSpace(line))
	if !strings.HasPrefix(prefix, "/") || strings.Contains(line, " ") {
		return nil
	}
	var out Catalog
	for _, s := range c {
		if strings.HasPrefix(strings.ToLower(s.Name), prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Complete extends line for tab completion. A single match completes to the
// full name and a trailing space; several matches complete to their longest
// shared prefix, or to the first match when that adds nothing.
func (c Catalog) Complete(line string) (string, bool) {
	matches := c.Match(line)
	switch len(matches) {
	case 0:
		return "", false
	case 1:
		return matches[0].Name + " ", true
	}
	shared := matches[0].Name
	for _, s := range matches[1:] {
		shared = commonPrefix(shared, s.Name)
	}
	if len(shared) > len(strings.TrimSpace(line)) {
		return shared, true
	}
	return matches[0].Name + " ", true
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
