// Package lint runs rules over proposal documents.
//
// A Linter owns a registry of rules keyed by slug, an ordered list of
// modifiers and a list of sources. Run processes each source in turn:
//
//  1. split and parse the preamble, parse the Markdown body;
//  2. ask every active rule which other documents it needs (FindResources);
//  3. fetch every newly requested path concurrently, at most once per run;
//  4. apply modifiers in registration order to the document's Settings;
//  5. run rules in ascending slug order.
//
// Fetched documents are parsed but never asked for their own references.
package lint
