package reportmodel

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// Formatter renders a ScanResult to a writer.
type Formatter interface {
	Format(w io.Writer, result ScanResult) error
}

// FormatterFor returns the Formatter for the named OutputFormat.
func FormatterFor(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return TextFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatDot:
		return DotFormatter{}, nil
	case FormatSarif:
		return SarifFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextFormatter renders a ScanResult as human-readable text: header,
// module/import counts, then findings (or a no-findings line).
type TextFormatter struct{}

func (TextFormatter) Format(w io.Writer, r ScanResult) error {
	fmt.Fprintln(w, "Import Graph")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d modules, %d direct imports\n", r.Modules, r.Imports)

	if len(r.Cycles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Cycles (%d):\n", len(r.Cycles))
		for _, c := range r.Cycles {
			fmt.Fprintf(w, "  %s\n", strings.Join(append(append([]string{}, c.Modules...), c.Modules[0]), " -> "))
		}
	}

	if len(r.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Layer violations (%d):\n", len(r.Violations))
		for _, v := range r.Violations {
			fmt.Fprintf(w, "  %s -> %s\n", v.Importer, v.Imported)
			for _, route := range v.Routes {
				if len(route.Middle) == 0 {
					fmt.Fprintf(w, "    %s -> %s\n", strings.Join(route.Heads, ","), strings.Join(route.Tails, ","))
					continue
				}
				fmt.Fprintf(w, "    %s -> %s -> %s\n", strings.Join(route.Heads, ","), strings.Join(route.Middle, " -> "), strings.Join(route.Tails, ","))
			}
		}
	}

	if len(r.Cycles) == 0 && len(r.Violations) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No cycles or layer violations found.")
	}
	return nil
}

// JSONFormatter renders a ScanResult as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(w io.Writer, r ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// DotFormatter renders a ScanResult's cycles and violation routes as
// a Graphviz "dot" graph.
type DotFormatter struct{}

func (DotFormatter) Format(w io.Writer, r ScanResult) error {
	fmt.Fprintln(w, "digraph imports {")
	for _, c := range r.Cycles {
		for i, m := range c.Modules {
			next := c.Modules[(i+1)%len(c.Modules)]
			fmt.Fprintf(w, "  %q -> %q [color=red];\n", m, next)
		}
	}
	for _, v := range r.Violations {
		for _, route := range v.Routes {
			chain := append(append(append([]string{}, route.Heads...), route.Middle...), route.Tails...)
			for i := 0; i+1 < len(chain); i++ {
				fmt.Fprintf(w, "  %q -> %q [color=orange];\n", chain[i], chain[i+1])
			}
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

// SarifFormatter renders a ScanResult as SARIF 2.1.0: one rule per
// finding kind (import-cycle, layer-violation), one result per
// finding.
type SarifFormatter struct{}

func (SarifFormatter) Format(w io.Writer, r ScanResult) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("grimp", "https://github.com/importgraph/grimp")

	if len(r.Cycles) > 0 {
		run.AddRule("import-cycle").
			WithDescription("Modules import each other in a cycle.").
			WithName("ImportCycle").
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("error"))
		for _, c := range r.Cycles {
			chain := append(append([]string{}, c.Modules...), c.Modules[0])
			message := fmt.Sprintf("Import cycle: %s", strings.Join(chain, " -> "))
			result := run.CreateResultForRule("import-cycle").WithMessage(sarif.NewTextMessage(message))
			result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(c.Modules[0])),
			))
		}
	}

	if len(r.Violations) > 0 {
		run.AddRule("layer-violation").
			WithDescription("A module imports a module in a higher or disallowed layer.").
			WithName("LayerViolation").
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("warning"))
		for _, v := range r.Violations {
			for _, route := range v.Routes {
				chain := append(append(append([]string{}, route.Heads...), route.Middle...), route.Tails...)
				message := fmt.Sprintf("%s imports %s via %s", v.Importer, v.Imported, strings.Join(chain, " -> "))
				result := run.CreateResultForRule("layer-violation").WithMessage(sarif.NewTextMessage(message))
				result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(v.Importer)),
				))
			}
		}
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
