// Package xbrl parses EDINET XBRL instance documents into flat fact and
// context lists. It is deliberately schema-less: tags are kept as local
// names and the resolution engine decides what they mean.
package xbrl

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// Namespaces holding structural markup rather than facts.
const (
	nsXBRLInstance = "http://www.xbrl.org/2003/instance"
	nsLinkbase     = "http://www.xbrl.org/2003/linkbase"
)

type xmlMember struct {
	Dimension string `xml:"dimension,attr"`
	Member    string `xml:",chardata"`
}

type xmlContext struct {
	ID     string `xml:"id,attr"`
	Period struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
	Scenario struct {
		Members []xmlMember `xml:"explicitMember"`
	} `xml:"scenario"`
}

// ParseInstance reads one XBRL instance document and returns its facts in
// document order together with all declared contexts. Facts without a
// contextRef attribute (schema references, footnotes, units) are skipped.
// Malformed dates inside a context are tolerated; a malformed document is not.
func ParseInstance(r io.Reader) ([]model.Fact, []model.Context, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xbrl: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var (
		facts    []model.Fact
		contexts []model.Context
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "xbrl: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Space == nsXBRLInstance && se.Name.Local == "context" {
			var xc xmlContext
			if err := decoder.DecodeElement(&xc, &se); err != nil {
				return nil, nil, eris.Wrap(err, "xbrl: decode context")
			}
			contexts = append(contexts, buildContext(xc))
			continue
		}
		if se.Name.Space == nsXBRLInstance || se.Name.Space == nsLinkbase {
			continue
		}

		contextRef := attr(se, "contextRef")
		if contextRef == "" {
			continue
		}

		value, err := collectText(decoder)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "xbrl: read fact %s", se.Name.Local)
		}
		facts = append(facts, model.Fact{
			Tag:        se.Name.Local,
			Namespace:  se.Name.Space,
			ContextRef: contextRef,
			RawValue:   strings.TrimSpace(value),
			Scale:      parseScale(attr(se, "scale")),
			Decimals:   attr(se, "decimals"),
		})
	}
	return facts, contexts, nil
}

// collectText consumes tokens up to the element's end tag and concatenates
// all character data, including text nested inside inline markup. Text-block
// facts carry escaped HTML; the markup itself is dropped.
func collectText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func buildContext(xc xmlContext) model.Context {
	c := model.Context{ID: xc.ID}
	if xc.Period.Instant != "" {
		c.PeriodKind = model.PeriodInstant
		c.End = parseDate(xc.Period.Instant)
	} else {
		c.PeriodKind = model.PeriodDuration
		c.Start = parseDate(xc.Period.StartDate)
		c.End = parseDate(xc.Period.EndDate)
	}
	for _, m := range xc.Scenario.Members {
		c.Members = append(c.Members, model.DimensionMember{
			Dimension: m.Dimension,
			Member:    strings.TrimSpace(m.Member),
		})
	}
	return c
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func parseScale(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
