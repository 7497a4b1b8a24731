package testutil

import (
	"fmt"
	"html"
	"strings"
)

// SDMXCode is one code written into a fixture codelist.
type SDMXCode struct {
	ID   string
	Name string
}

// SDMXStructure renders a minimal SDMX-ML 2.1 structure message whose data
// structure has a TIME_PERIOD dimension, a SERIES dimension and the given
// reference area dimension enumerated by CL_AREA.
func SDMXStructure(dimension string, codes ...SDMXCode) string {
	var cl strings.Builder
	for _, c := range codes {
		fmt.Fprintf(&cl, `
          <str:Code id="%s" urn="urn:sdmx:org.sdmx.infomodel.codelist.Code=IAEG-SDGs:CL_AREA(1.0).%s">
            <com:Name xml:lang="fr">%s (fr)</com:Name>
            <com:Name xml:lang="en">%s</com:Name>
          </str:Code>`, c.ID, c.ID, html.EscapeString(c.Name), html.EscapeString(c.Name))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<mes:Structure xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
               xmlns:str="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure"
               xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header>
    <mes:ID>IREF000001</mes:ID>
    <mes:Test>false</mes:Test>
  </mes:Header>
  <mes:Structures>
    <str:Codelists>
      <str:Codelist id="CL_SERIES" agencyID="IAEG-SDGs" version="1.0">
        <com:Name xml:lang="en">Series</com:Name>
        <str:Code id="SI_POV_DAY1"><com:Name xml:lang="en">Poverty</com:Name></str:Code>
      </str:Codelist>
      <str:Codelist id="CL_AREA" agencyID="IAEG-SDGs" version="1.0">
        <com:Name xml:lang="en">Reference Area</com:Name>%s
      </str:Codelist>
    </str:Codelists>
    <str:DataStructures>
      <str:DataStructure id="SDG" agencyID="IAEG-SDGs" version="1.0">
        <com:Name xml:lang="en">SDG</com:Name>
        <str:DataStructureComponents>
          <str:DimensionList id="DimensionDescriptor">
            <str:Dimension id="SERIES" position="1">
              <str:LocalRepresentation>
                <str:Enumeration><Ref id="CL_SERIES" version="1.0" agencyID="IAEG-SDGs" package="codelist" class="Codelist"/></str:Enumeration>
              </str:LocalRepresentation>
            </str:Dimension>
            <str:Dimension id="%s" position="2">
              <str:LocalRepresentation>
                <str:Enumeration><Ref id="CL_AREA" version="1.0" agencyID="IAEG-SDGs" package="codelist" class="Codelist"/></str:Enumeration>
              </str:LocalRepresentation>
            </str:Dimension>
            <str:TimeDimension id="TIME_PERIOD" position="3"/>
          </str:DimensionList>
        </str:DataStructureComponents>
      </str:DataStructure>
    </str:DataStructures>
  </mes:Structures>
</mes:Structure>
`, cl.String(), dimension)
}
