package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SetColor turns colored output on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// PrintLogo renders the pathloom banner to w.
func PrintLogo(w io.Writer) {
	node := color.New(color.FgYellow)
	edge := color.New(color.FgCyan, color.Faint)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	node.Fprintln(w, "   (S)--->(A)--->(C)--->(E)")
	edge.Fprintln(w, "     \\              /")
	node.Fprintln(w, "      `---->(B)----'")
	brand.Fprintln(w, "   P  A  T  H  L  O  O  M")
	tag.Fprintf(w, "   %s Critical path scheduling\n", Dim("⏱"))
	fmt.Fprintln(w)
}

// activityColors is a palette of distinct bold colors for telling activities apart.
var activityColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// activityColorIndex hashes an activity name to a palette index.
func activityColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(activityColors)))
}

// ActivityName returns the name in its stable palette color.
func ActivityName(name string) string {
	return activityColors[activityColorIndex(name)](name)
}

// ClassIcon returns a colored icon for a deviation class.
func ClassIcon(class string) string {
	switch class {
	case "on_early":
		return Green("✓")
	case "before_early":
		return BoldGreen("»")
	case "before_late":
		return Yellow("●")
	case "on_late":
		return BoldYellow("!")
	case "after_late":
		return BoldRed("✗")
	default:
		return Dim("◌")
	}
}

// CriticalMark returns a marker for critical activities and paths.
func CriticalMark(critical bool) string {
	if critical {
		return BoldRed("★")
	}
	return " "
}

// Slack returns the slack value, red when there is none.
func Slack(slack int) string {
	if slack == 0 {
		return Red(fmt.Sprintf("%d", slack))
	}
	return Green(fmt.Sprintf("%d", slack))
}
