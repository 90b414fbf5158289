// Package tabular parses delimited text (CSV by default) into ordered
// header->value records. The parser is total: any input yields records,
// never an error. Hand-edited data files are the expected diet, so
// ragged rows, stray quotes and mixed line endings are all tolerated.
package tabular

import "strings"

// Record is one data row keyed by header name. Field order follows the
// header row; use Headers alongside Values when order matters.
type Record struct {
	Headers []string
	Values  map[string]string
}

// Get returns the trimmed value for a header, or "" when absent.
func (r Record) Get(key string) string { return r.Values[key] }

// Parse converts comma-delimited text into records.
func Parse(text string) []Record {
	return ParseDelim(text, ',')
}

// ParseDelim scans text left to right with a quoted-field state machine:
//   - inside quotes: "" emits a literal quote, a lone " closes the field
//   - outside quotes: delim ends the field, \n ends the row, \r is dropped
//
// The header row is the first row; short data rows are padded with "",
// blank rows are skipped, and every value is whitespace-trimmed. An
// unterminated quote simply runs to end of input and is flushed as-is.
func ParseDelim(text string, delim rune) []Record {
	var rows [][]string
	var row []string
	var field strings.Builder
	inside := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inside {
			switch {
			case c == '"' && i+1 < len(runes) && runes[i+1] == '"':
				field.WriteRune('"')
				i++
			case c == '"':
				inside = false
			default:
				field.WriteRune(c)
			}
			continue
		}
		switch c {
		case '"':
			inside = true
		case delim:
			row = append(row, field.String())
			field.Reset()
		case '\n':
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		case '\r':
			// normalizes CRLF and bare CR
		default:
			field.WriteRune(c)
		}
	}
	row = append(row, field.String())
	rows = append(rows, row)

	if len(rows) == 0 {
		return nil
	}
	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var out []Record
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		vals := make(map[string]string, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(r) {
				v = strings.TrimSpace(r[i])
			}
			vals[h] = v
		}
		out = append(out, Record{Headers: headers, Values: vals})
	}
	return out
}

func blankRow(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
