package mcpserver

// StoryFormatContract describes the canonical .story archive layout that
// LLM consumers should follow when reasoning about stories.
const StoryFormatContract = `# Story Archive Format Contract

Every story is a single ` + "`" + `.story` + "`" + ` file: a zip archive with a fixed
internal layout.

## Layout

` + "```" + `
story.yml            # story metadata (YAML)
chapters/*.md        # chapter text, ordered
notes/**             # free-form notes, arbitrarily nested folders
notes/<dir>/folder.yml   # optional folder metadata sidecar
` + "```" + `

## story.yml

` + "```" + `yaml
title: My Novel                 # REQUIRED
author: A. Writer               # OPTIONAL
genre: fantasy                  # OPTIONAL
description: One-line pitch     # OPTIONAL
created: 2025-01-15T10:00:00Z   # RFC 3339
edited: 2025-01-20T18:30:00Z    # RFC 3339, bumped on every save
wordCount: 48213                # derived, chapters only
quoteCount: 310                 # derived, chapters only
paragraphCount: 1204            # derived, chapters only
goals:                          # OPTIONAL writing goals
  words: {enabled: true, target: 80000}
` + "```" + `

Unknown keys are preserved verbatim across load and save.

## Chapters

` + "```" + `markdown
---
title: The Beginning    # display title
order: 0                # position; dense, starts at 0
created: 2025-01-15T10:00:00Z
edited: 2025-01-15T10:00:00Z
---

Chapter body text.
` + "```" + `

Rules:

1. Chapter order comes from the ` + "`" + `order` + "`" + ` field; files without one sort
   after ordered chapters, by file name.
2. The frontmatter fences must be the first thing in the file.
3. Word, quote and paragraph counts are computed over chapter bodies only,
   with frontmatter stripped. Notes never count.
4. File names are lowercase slugs ending in ` + "`" + `.md` + "`" + `.
5. Encoding is UTF-8.

## Notes

Notes use the same frontmatter format (without ` + "`" + `order` + "`" + `). Folders may
carry a ` + "`" + `folder.yml` + "`" + ` sidecar with a ` + "`" + `title` + "`" + ` and arbitrary metadata;
the sidecar describes the folder and is not a note itself.
`
