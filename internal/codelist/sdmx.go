package codelist

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vk/regiongrid/internal/model"
)

// structureMessage is the subset of an SDMX-ML 2.1 structure message read
// here. Element names are matched by local name, so namespace prefixes in the
// document do not matter.
type structureMessage struct {
	XMLName        xml.Name        `xml:"Structure"`
	Codelists      []codelistXML   `xml:"Structures>Codelists>Codelist"`
	DataStructures []dataStructXML `xml:"Structures>DataStructures>DataStructure"`
}

type codelistXML struct {
	ID       string    `xml:"id,attr"`
	AgencyID string    `xml:"agencyID,attr"`
	Version  string    `xml:"version,attr"`
	Codes    []codeXML `xml:"Code"`
}

type codeXML struct {
	ID    string          `xml:"id,attr"`
	Names []localisedText `xml:"Name"`
}

type localisedText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type dataStructXML struct {
	ID         string         `xml:"id,attr"`
	Dimensions []dimensionXML `xml:"DataStructureComponents>DimensionList>Dimension"`
}

type dimensionXML struct {
	ID          string `xml:"id,attr"`
	Enumeration refXML `xml:"LocalRepresentation>Enumeration>Ref"`
}

type refXML struct {
	ID       string `xml:"id,attr"`
	AgencyID string `xml:"agencyID,attr"`
	Version  string `xml:"version,attr"`
}

// Code is one enumerated value of a codelist.
type Code struct {
	ID   string
	Name string
}

// decode parses a structure message.
func decode(r io.Reader) (*structureMessage, error) {
	var msg structureMessage
	if err := xml.NewDecoder(r).Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: decode structure message: %v", ErrClassificationUnavailable, err)
	}
	if len(msg.DataStructures) == 0 {
		return nil, fmt.Errorf("%w: message contains no data structure", ErrClassificationUnavailable)
	}
	return &msg, nil
}

// DimensionCodes returns the enumerated codes of the named dimension, in
// document order.
func DimensionCodes(r io.Reader, dimension string) ([]Code, error) {
	msg, err := decode(r)
	if err != nil {
		return nil, err
	}

	var ref *refXML
	for _, ds := range msg.DataStructures {
		for i := range ds.Dimensions {
			if ds.Dimensions[i].ID == dimension {
				ref = &ds.Dimensions[i].Enumeration
				break
			}
		}
		if ref != nil {
			break
		}
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: no dimension %q in data structure", ErrDimensionNotFound, dimension)
	}
	if ref.ID == "" {
		return nil, fmt.Errorf("%w: dimension %q has no enumerated representation", ErrDimensionNotFound, dimension)
	}

	cl := findCodelist(msg.Codelists, *ref)
	if cl == nil {
		return nil, fmt.Errorf("%w: codelist %s referenced by %q is not in the message", ErrDimensionNotFound, ref.ID, dimension)
	}

	codes := make([]Code, 0, len(cl.Codes))
	for _, c := range cl.Codes {
		codes = append(codes, Code{ID: strings.TrimSpace(c.ID), Name: displayName(c)})
	}
	return codes, nil
}

// findCodelist resolves a reference, preferring an exact agency and version
// match and falling back to the first codelist with the same id.
func findCodelist(lists []codelistXML, ref refXML) *codelistXML {
	var byID *codelistXML
	for i := range lists {
		cl := &lists[i]
		if cl.ID != ref.ID {
			continue
		}
		if byID == nil {
			byID = cl
		}
		agencyOK := ref.AgencyID == "" || cl.AgencyID == ref.AgencyID
		versionOK := ref.Version == "" || cl.Version == ref.Version
		if agencyOK && versionOK {
			return cl
		}
	}
	return byID
}

// displayName picks the English name, else the first name, else the id.
func displayName(c codeXML) string {
	var name string
	for _, n := range c.Names {
		if strings.EqualFold(n.Lang, "en") {
			name = n.Value
			break
		}
	}
	if name == "" && len(c.Names) > 0 {
		name = c.Names[0].Value
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return strings.TrimSpace(c.ID)
	}
	return name
}

// ParseTargets reads a structure message and returns the numeric codes of the
// named dimension as targets in canonical attempt order.
func ParseTargets(r io.Reader, dimension string) ([]model.Target, error) {
	codes, err := DimensionCodes(r, dimension)
	if err != nil {
		return nil, err
	}
	return NumericTargets(codes), nil
}
