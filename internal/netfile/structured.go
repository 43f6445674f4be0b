package netfile

import (
	"fmt"
	"io"
	"math"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
	"github.com/joshharrison/pathloom/internal/tracker"
)

// ParseYAML reads a network document:
//
//	activities: [{name: Start, duration: -1}, ...]
//	precedence: [{from: Start, to: A}, ...]
//	execution:  [{day: 1, started: [A]}, ...]
func ParseYAML(data []byte) (*Definition, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, schederr.Configf("parse yaml: %v", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseJSON reads the JSON form of the YAML document.
func ParseJSON(data []byte) (*Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, schederr.Configf("invalid json")
	}
	doc := gjson.ParseBytes(data)
	def := &Definition{}

	var err error
	doc.Get("activities").ForEach(func(_, item gjson.Result) bool {
		dur := item.Get("duration")
		if dur.Type != gjson.Number {
			err = schederr.Configf("activity %q: duration must be a number", item.Get("name").String())
			return false
		}
		if dur.Num != math.Trunc(dur.Num) {
			err = schederr.Configf("activity %q: duration %s is not a whole number of days", item.Get("name").String(), dur.Raw)
			return false
		}
		def.Activities = append(def.Activities, network.Activity{
			Name:     item.Get("name").String(),
			Duration: int(dur.Int()),
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	doc.Get("precedence").ForEach(func(_, item gjson.Result) bool {
		def.Edges = append(def.Edges, network.Edge{
			From: item.Get("from").String(),
			To:   item.Get("to").String(),
		})
		return true
	})

	doc.Get("execution").ForEach(func(_, item gjson.Result) bool {
		day := item.Get("day")
		if day.Type != gjson.Number {
			err = schederr.Configf("execution entry without a numeric day: %s", item.Raw)
			return false
		}
		if day.Num != math.Trunc(day.Num) {
			err = schederr.Configf("execution day %s is not a whole number", day.Raw)
			return false
		}
		def.Events = append(def.Events, tracker.DayEvent{
			Day:      int(day.Int()),
			Started:  stringArray(item.Get("started")),
			Finished: stringArray(item.Get("finished")),
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	if err := def.validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func stringArray(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

// WriteYAML encodes def in the YAML network format.
func WriteYAML(w io.Writer, def *Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	return enc.Close()
}
