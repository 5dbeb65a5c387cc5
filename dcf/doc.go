// Package dcf reads Debian-Control-File-style (DCF) metadata.
//
// # Format
//
// A DCF document is a sequence of records separated by blank lines. Each record
// is a list of "Field: value" lines. A line starting with a space or a tab
// continues the value of the previous field, and a line starting with '#' is a
// comment, ignored wherever it appears.
//
//	Package: foo
//	Version: 1.2-3
//	Description: A long description
//	  spanning two lines.
//
// # Readers
//
// Two readers are provided, with different costs:
//
//   - Parse and ParseMerged build full records, handling continuation lines,
//     comments and record boundaries, and report malformed input with a
//     ParseError carrying the source name and line number.
//   - Scanner walks a source one line at a time looking for the next field (or
//     the next occurrence of a named field) without building records. It does
//     not understand continuation lines and is meant for cheap lookups in small
//     files.
//
// Both read from a Source, which pairs a line iterator with a display name and
// a Decoder. The default decoder accepts UTF-8 and falls back to ISO-8859-1 for
// producers that do not declare their encoding.
package dcf
