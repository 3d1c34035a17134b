package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// WriteXLSX builds a one-worksheet OOXML workbook and writes it as a ZIP
// archive. Text values become inline-string cells, plain integers become
// numeric cells; the header row uses the bold style. The archive is
// assembled in memory before writing (central-directory offsets require it).
func WriteXLSX(w io.Writer, sheetName string, headers []string, rows [][]string) error {
	if sheetName == "" {
		sheetName = "Report"
	}

	var z zipBuilder
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(xlsxContentTypes)},
		{"_rels/.rels", []byte(xlsxRootRels)},
		{"xl/workbook.xml", workbookXML(sheetName)},
		{"xl/_rels/workbook.xml.rels", []byte(xlsxWorkbookRels)},
		{"xl/styles.xml", []byte(xlsxStyles)},
		{"xl/worksheets/sheet1.xml", worksheetXML(headers, rows)},
	}
	for _, p := range parts {
		if err := z.add(p.name, p.data); err != nil {
			return fmt.Errorf("xlsx part %s: %w", p.name, err)
		}
	}
	return z.finish(w)
}

const xlsxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/><Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/></Types>`

const xlsxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`

const xlsxWorkbookRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

// Two cell formats: index 0 default, index 1 bold for the header row.
const xlsxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><fonts count="2"><font><sz val="11"/><name val="Calibri"/></font><font><b/><sz val="11"/><name val="Calibri"/></font></fonts><fills count="1"><fill><patternFill patternType="none"/></fill></fills><borders count="1"><border/></borders><cellXfs count="2"><xf fontId="0" applyFont="1"/><xf fontId="1" applyFont="1"/></cellXfs></styleSheet>`

func workbookXML(sheetName string) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="`)
	xmlEscape(&b, sheetName)
	b.WriteString(`" sheetId="1" r:id="rId1"/></sheets></workbook>`)
	return b.Bytes()
}

func worksheetXML(headers []string, rows [][]string) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)

	writeRow(&b, 1, headers, true)
	for i, row := range rows {
		writeRow(&b, i+2, row, false)
	}

	b.WriteString(`</sheetData></worksheet>`)
	return b.Bytes()
}

func writeRow(b *bytes.Buffer, num int, cells []string, header bool) {
	fmt.Fprintf(b, `<row r="%d">`, num)
	for i, v := range cells {
		ref := cellRef(i, num)
		style := 0
		if header {
			style = 1
		}
		if !header && isInteger(v) {
			fmt.Fprintf(b, `<c r="%s" s="%d"><v>%s</v></c>`, ref, style, v)
			continue
		}
		fmt.Fprintf(b, `<c r="%s" s="%d" t="inlineStr"><is><t>`, ref, style)
		xmlEscape(b, v)
		b.WriteString(`</t></is></c>`)
	}
	b.WriteString(`</row>`)
}

// cellRef converts a zero-based column index and 1-based row to A1 notation.
func cellRef(col, row int) string {
	name := make([]byte, 0, 3)
	for col >= 0 {
		name = append([]byte{byte('A' + col%26)}, name...)
		col = col/26 - 1
	}
	return string(name) + strconv.Itoa(row)
}

// isInteger keeps leading-zero values like uniqueids as text so spreadsheets
// do not mangle them.
func isInteger(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	if len(s) > 18 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func xmlEscape(b *bytes.Buffer, s string) {
	// xml.EscapeText only fails on a broken writer; bytes.Buffer never is.
	_ = xml.EscapeText(b, []byte(s))
}
