package declaration

import (
	"fmt"
	"strings"

	"github.com/aretw0/onion/pkg/domain"
)

// plan orders the components so that every referenced component comes
// before the components referencing it.
func (p *Processor) plan() ([]string, error) {
	const (
		visiting = 1
		visited  = 2
	)
	marks := make(map[string]int, len(p.components))
	order := make([]string, 0, len(p.components))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch marks[name] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), name)
			return fmt.Errorf("%w: %s", domain.ErrDependencyCycle, strings.Join(cycle, " -> "))
		}
		marks[name] = visiting
		stack = append(stack, name)
		for _, dep := range p.Dependencies(name) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[name] = visited
		order = append(order, name)
		return nil
	}

	for _, c := range p.components {
		if err := visit(c.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
