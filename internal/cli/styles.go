package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	labelStyle = lipgloss.NewStyle().
			Faint(true).
			Width(18)
	valueStyle = lipgloss.NewStyle()
	faintStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F85149"})
)

func printTitle(out io.Writer, title string) {
	fmt.Fprintln(out, headerStyle.Render(title))
	fmt.Fprintln(out, headerStyle.Render(strings.Repeat("=", len(title))))
}

func printSection(out io.Writer, title string) {
	fmt.Fprintf(out, "  %s\n", headerStyle.Render(title))
}

func printKV(out io.Writer, label, value string) {
	fmt.Fprintf(out, "    %s%s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func printList(out io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(out, "    (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(out, "    %s\n", item)
	}
}

func printStats(out io.Writer, project *graph.Project) {
	printTitle(out, project.Root)
	st := project.Stats
	printKV(out, "Modules", fmt.Sprint(st.TotalModules))
	printKV(out, "Functions", fmt.Sprint(st.TotalFunctions))
	printKV(out, "Classes", fmt.Sprint(st.TotalClasses))
	printKV(out, "Edges", fmt.Sprint(st.TotalEdges))
	if st.ParseErrors > 0 {
		printKV(out, "Parse errors", errorStyle.Render(fmt.Sprint(st.ParseErrors)))
		for _, m := range project.Modules {
			if m.Failed() {
				fmt.Fprintf(out, "    %s  %s\n", m.Path, errorStyle.Render(m.Error))
			}
		}
	}
}
