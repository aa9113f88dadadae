package mcpserver

// LayoutURI identifies the wiki layout resource.
const LayoutURI = "wikitree://layout"

// WikiLayout describes how pages are stored on disk, for LLM clients that
// edit the wiki through these tools or directly.
const WikiLayout = `# Wiki Layout

The wiki is a directory tree. The directory structure IS the page tree.

## Pages

- The root page is the only Markdown file directly in the wiki root, normally ` + "`Home.md`" + `.
- Every other page lives in its own directory: ` + "`NN_Page-Name/Page-Name.md`" + `.
- ` + "`NN`" + ` is the zero-based position of the page among its siblings, zero-padded to two
  digits (` + "`00`, `01`, ... `99`, `100`" + `). Positions are contiguous.
- Children of a page are the page directories inside its directory.
- Names use hyphens on disk and spaces for display: ` + "`Getting-Started`" + ` is "Getting Started".
- Names may not contain ` + "`\\ / : * ? \" < > |`" + ` or control characters.

## Generated files

- ` + "`_Sidebar.md`" + ` and ` + "`_Footer.md`" + ` sit next to every page and are regenerated
  by ` + "`update_navigation`" + `. Never edit them by hand.
- Files starting with ` + "`_`" + ` are never pages.

## Reading order

Pages are read depth-first: a page, then its children in position order, then its next
sibling. The footer links each page to the next and previous page in that order and up to
its parent.

## Editing rules

1. Use ` + "`add_page`" + `, ` + "`move_page`" + ` and ` + "`remove_page`" + ` to change the tree; they renumber
   siblings so positions stay contiguous.
2. Page names must be unique across the whole wiki.
3. Only leaf pages can be removed; move or remove children first.
`
