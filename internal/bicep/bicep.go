// Package bicep extracts a graph snapshot document from a Bicep-style
// descriptor using regex matching. It understands just enough of the syntax
// to recover resources, their declared connections, and source locations; it
// is not a parser for the language.
package bicep

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grovetool/appgraph/internal/model"
)

var (
	resourcePat  = regexp.MustCompile(`(?s)resource\s+(\w+)\s+'([^']+)'\s*=\s*\{(.*?)\n\}`)
	namePat      = regexp.MustCompile(`name:\s*'([^']+)'`)
	imagePat     = regexp.MustCompile(`image:\s*'([^']+)'`)
	portPat      = regexp.MustCompile(`containerPort:\s*(\d+)`)
	connBlockPat = regexp.MustCompile(`(?s)connections:\s*\{(.*?)\n\s*\}`)
	connEntryPat = regexp.MustCompile(`(\w+):\s*\{`)
	sourceRefPat = regexp.MustCompile(`source:\s*(\w+)\.(?:id|connectionString)`)
)

// Extract scans descriptor text and returns the equivalent snapshot document.
// Resource ids are the Bicep symbolic names, so connection references resolve
// by exact key; file is recorded as the sourceLocation of every resource.
func Extract(file string, content []byte) model.Document {
	text := string(content)
	var doc model.Document
	seen := make(map[model.ConnectionDoc]bool)

	addConn := func(source, target string) {
		c := model.ConnectionDoc{SourceID: source, TargetID: target}
		if !seen[c] {
			seen[c] = true
			doc.Connections = append(doc.Connections, c)
		}
	}

	for _, m := range resourcePat.FindAllStringSubmatchIndex(text, -1) {
		symbol := text[m[2]:m[3]]
		rtype := text[m[4]:m[5]]
		body := text[m[6]:m[7]]
		line := strings.Count(text[:m[0]], "\n") + 1

		name := symbol
		if nm := namePat.FindStringSubmatch(body); nm != nil {
			name = nm[1]
		}

		props := make(map[string]any)
		if im := imagePat.FindStringSubmatch(body); im != nil {
			props["image"] = im[1]
		}
		if pm := portPat.FindStringSubmatch(body); pm != nil {
			if port, err := strconv.Atoi(pm[1]); err == nil {
				props["containerPort"] = port
			}
		}

		rd := model.ResourceDoc{
			ID:             symbol,
			Name:           name,
			Type:           rtype,
			SourceLocation: &model.Location{File: file, Line: line},
		}
		if len(props) > 0 {
			rd.Properties = props
		}
		doc.Resources = append(doc.Resources, rd)

		// The block pattern stops at the first dedented close brace, so
		// entries after the first connection body are found through their
		// source references below.
		if cb := connBlockPat.FindStringSubmatch(body); cb != nil {
			for _, em := range connEntryPat.FindAllStringSubmatch(cb[1], -1) {
				addConn(symbol, em[1])
			}
		}
		for _, sm := range sourceRefPat.FindAllStringSubmatch(body, -1) {
			addConn(symbol, sm[1])
		}
	}
	return doc
}
