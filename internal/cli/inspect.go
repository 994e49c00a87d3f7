package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/onion/internal/logging"
	"github.com/aretw0/onion/internal/presentation/graph"
	"github.com/aretw0/onion/pkg/declaration"
)

func prepare(path string) (*declaration.Processor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declaration: %w", err)
	}
	app := createApplication(RunOptions{}, logging.NewNop(), nil)
	return app.Prepare(context.Background(), data)
}

// Validate checks the declaration in path without building it and prints the
// build order.
func Validate(path string, w io.Writer) error {
	p, err := prepare(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d components, %d references\n", len(p.Components()), len(p.References()))
	for i, name := range p.Order() {
		c, _ := p.Lookup(name)
		fmt.Fprintf(w, "%3d. %s (%s)\n", i+1, name, c.Class.Name())
	}
	return nil
}

// Graph prints the Mermaid graph of the declaration in path.
func Graph(path string, w io.Writer) error {
	p, err := prepare(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(p, nil))
	return err
}
