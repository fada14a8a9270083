package mcpserver

// LibraryConventions describes how an inkwell library is laid out and how
// its documents are turned into pages.
const LibraryConventions = `# inkwell Library Conventions

A library is one flat directory of Markdown documents. Sub-directories and
files without the ` + "`.md`" + ` extension are ignored.

## File names

- Documents are named ` + "`<slug>@<timestamp>.md`" + `, e.g. ` + "`release-notes@2024-06-01.md`" + `.
- The text after the first ` + "`@`" + ` up to ` + "`.md`" + ` is the page timestamp. It is
  compared as a string, so use a sortable form such as ISO-8601.
- A document without ` + "`@`" + ` has the timestamp "Invalid Date".
- ` + "`SUMMARY.md`" + ` is reserved: it is listed on the index page but never takes
  part in previous/next navigation.

## Titles

The first line of a document is its title, with leading ` + "`#`" + ` characters and
surrounding whitespace removed. Start every document with a level-one heading.

## Ordering

- The index page lists documents newest timestamp first; ties are ordered by
  filename.
- Previous/next navigation follows filename order. The first document links
  back to the index page; the last one has no next link.

## Markdown

CommonMark plus tables, footnotes, strikethrough and task lists. Fenced code
blocks are syntax highlighted by their info string (` + "` ```go `" + `); unknown or
missing languages render as plain text. Indented code blocks are plain text.
`
