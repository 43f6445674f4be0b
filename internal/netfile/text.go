package netfile

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
	"github.com/joshharrison/pathloom/internal/tracker"
)

var (
	pairLine  = regexp.MustCompile(`^\{\s*([^{}]+?)\s*\}\s*\{\s*([^{}]+?)\s*\}$`)
	dayLine   = regexp.MustCompile(`^(\d+)\s*:\s*(.*)$`)
	dayGroup  = regexp.MustCompile(`\{\s*([if])\s*:\s*([^{}]*)\}`)
	groupTail = regexp.MustCompile(`^(\s*\{\s*[if]\s*:\s*[^{}]*\})*\s*$`)
)

type line struct {
	no   int
	text string
}

// ParseText reads the bracketed notation:
//
//	#
//	{{Start,-1},{A,3},{B,2},{End,-1}}
//	#
//	{
//	Start
//	A
//	}
//	{A}{End}
//	#
//	1:{i:A}
//	4:{f:A}{i:B}
//
// Lines before the first marker are ignored. A marker is a line starting
// with '#' and containing no other '#'. Two markers are required; a third
// opens the optional execution section.
func ParseText(r io.Reader) (*Definition, error) {
	var sections [][]line
	sc := bufio.NewScanner(r)
	no := 0
	for sc.Scan() {
		no++
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "#") {
			if strings.Count(text, "#") > 1 {
				return nil, schederr.Configf("line %d: invalid \"##\" marker", no)
			}
			sections = append(sections, nil)
			continue
		}
		if len(sections) == 0 || text == "" {
			continue
		}
		sections[len(sections)-1] = append(sections[len(sections)-1], line{no: no, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(sections) < 2 || len(sections) > 3 {
		return nil, schederr.Configf("expected 2 or 3 \"#\" markers, found %d", len(sections))
	}

	def := &Definition{}
	var err error
	if def.Activities, err = parseHeader(sections[0]); err != nil {
		return nil, err
	}
	if def.Edges, err = parsePairs(sections[1]); err != nil {
		return nil, err
	}
	if len(sections) == 3 {
		if def.Events, err = parseExecution(sections[2]); err != nil {
			return nil, err
		}
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func parseHeader(lines []line) ([]network.Activity, error) {
	for _, l := range lines {
		if len(l.text) <= 4 || !strings.HasPrefix(l.text, "{{") || !strings.HasSuffix(l.text, "}}") {
			continue
		}
		// {{a,1},{b,2}} carries 2n-1 commas for n activities.
		if strings.Count(l.text, ",")%2 == 0 {
			return nil, schederr.Configf("line %d: invalid header", l.no)
		}
		body := l.text[1 : len(l.text)-1]
		var acts []network.Activity
		for body != "" {
			body = strings.TrimLeft(body, ", ")
			if !strings.HasPrefix(body, "{") {
				return nil, schederr.Configf("line %d: invalid header near %q", l.no, body)
			}
			end := strings.IndexByte(body, '}')
			if end < 0 {
				return nil, schederr.Configf("line %d: unterminated header entry", l.no)
			}
			entry := body[1:end]
			body = strings.TrimSpace(body[end+1:])

			name, weight, ok := strings.Cut(entry, ",")
			if !ok {
				return nil, schederr.Configf("line %d: header entry %q needs a name and a weight", l.no, entry)
			}
			n, err := strconv.Atoi(strings.TrimSpace(weight))
			if err != nil {
				return nil, schederr.Configf("line %d: weight of %q: %v", l.no, strings.TrimSpace(name), err)
			}
			acts = append(acts, network.Activity{Name: strings.TrimSpace(name), Duration: n})
		}
		return acts, nil
	}
	return nil, schederr.Configf("header missing or invalid")
}

func parsePairs(lines []line) ([]network.Edge, error) {
	var edges []network.Edge
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if m := pairLine.FindStringSubmatch(l.text); m != nil {
			edges = append(edges, network.Edge{From: m[1], To: m[2]})
			continue
		}
		if l.text != "{" {
			return nil, schederr.Configf("line %d: invalid precedence %q", l.no, l.text)
		}
		if i+3 >= len(lines) {
			return nil, schederr.Configf("line %d: unterminated precedence block", l.no)
		}
		from, to, closing := lines[i+1], lines[i+2], lines[i+3]
		if closing.text != "}" {
			return nil, schederr.Configf("line %d: invalid encoding, expected \"}\"", closing.no)
		}
		edges = append(edges, network.Edge{From: from.text, To: to.text})
		i += 3
	}
	return edges, nil
}

func parseExecution(lines []line) ([]tracker.DayEvent, error) {
	var events []tracker.DayEvent
	for _, l := range lines {
		m := dayLine.FindStringSubmatch(l.text)
		if m == nil || !groupTail.MatchString(m[2]) {
			return nil, schederr.Configf("line %d: invalid execution line %q", l.no, l.text)
		}
		day, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, schederr.Configf("line %d: day: %v", l.no, err)
		}
		ev := tracker.DayEvent{Day: day}
		for _, g := range dayGroup.FindAllStringSubmatch(m[2], -1) {
			names := splitNames(g[2])
			if g[1] == "i" {
				ev.Started = append(ev.Started, names...)
			} else {
				ev.Finished = append(ev.Finished, names...)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
