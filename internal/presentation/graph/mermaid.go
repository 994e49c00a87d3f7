package graph

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/declaration"
	"github.com/aretw0/onion/pkg/schema"
)

// GraphOverlay contains build state to visualize on the graph.
type GraphOverlay struct {
	Built  []string
	Failed string
}

var (
	runnableType = reflect.TypeFor[component.Runnable]()
	setupType    = reflect.TypeFor[component.Setup]()
)

// GenerateMermaid produces a Mermaid flowchart of a processed declaration.
// Edges follow the data: from the referenced component to the one holding the
// reference. It applies semantic styling:
// - Runnable: [[Subroutine]]
// - Setup only: [/Parallelogram/]
// - Nested declaration: (Rounded)
// - Default: [Rectangle]
// It also applies overlay styles (Built/Failed) if provided.
func GenerateMermaid(p *declaration.Processor, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nested := make(map[string]bool)
	for _, n := range p.Nested() {
		nested[n.Placeholder.Name] = true
	}

	for _, c := range p.Components() {
		safeID := sanitizeMermaidID(c.Name)

		opener, closer := "[", "]"
		typ := c.Class.Type()
		switch {
		case typ.Implements(runnableType):
			opener, closer = "[[", "]]"
		case typ.Implements(setupType):
			opener, closer = "[/", "/]"
		case nested[c.Name]:
			opener, closer = "(", ")"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> %s\"%s\n", safeID, opener, c.Name, c.Class.Name(), closer)
	}

	for _, r := range p.References() {
		from := sanitizeMermaidID(r.Placeholder.Ref)
		to := sanitizeMermaidID(r.Owner)

		arrow := "-->"
		if nested[r.Placeholder.Ref] {
			arrow = "-.->"
		}
		if label := edgeLabel(r); label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if nested[r.Placeholder.Ref] {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef built fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Built {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s built;\n", safeID)
			}
		}
		if overlay.Failed != "" {
			fmt.Fprintf(&sb, "    class %s failed;\n", sanitizeMermaidID(overlay.Failed))
		}
	}

	return sb.String()
}

// edgeLabel names the selected field and the location it feeds, e.g.
// "temperature → props.temperature".
func edgeLabel(r declaration.Replaceable[schema.Reference]) string {
	where := strings.Join(r.Path[1:], ".")
	if r.Placeholder.Prop == "" {
		return strings.ReplaceAll(where, "\"", "'")
	}
	return strings.ReplaceAll(r.Placeholder.Prop+" → "+where, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
