// Package preamble splits a proposal document into its `---` delimited
// preamble and Markdown body, and parses the preamble into ordered fields.
//
// Fields are stored as byte offsets into the preamble text, so a parsed
// Preamble holds a single string plus a compact index.
package preamble
