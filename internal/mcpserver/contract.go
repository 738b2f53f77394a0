package mcpserver

// MemoryFormatContract describes the canonical memory record format that
// LLM consumers should follow when creating memories.
const MemoryFormatContract = `# RememberMe Memory Record Contract

Every memory created through the journal MUST follow this structure.

## Fields

` + "```" + `json
{
  "title": "Human-readable title",          // REQUIRED - shown in the timeline
  "content": "Body text of the memory",     // REQUIRED - plain text
  "date": "2025-01-15",                     // calendar date the memory is about
  "type": "text",                           // one of: text, image, audio, video
  "tags": ["family", "birthday"],           // optional list of plain strings
  "mediaUrl": "data:image/jpeg;base64,..."  // only for non-text memories
}
` + "```" + `

## Rules

1. **` + "`" + `title` + "`" + ` and ` + "`" + `content` + "`" + ` are required.** Titles are short; content holds the story.
2. **` + "`" + `date` + "`" + `** is the date the memory is ABOUT, formatted YYYY-MM-DD. It may
   differ from the creation timestamp, which the journal assigns itself.
3. **` + "`" + `type` + "`" + `** defaults to ` + "`" + `text` + "`" + `. Use ` + "`" + `image` + "`" + `, ` + "`" + `audio` + "`" + ` or ` + "`" + `video` + "`" + ` only
   when a media payload is attached.
4. **` + "`" + `mediaUrl` + "`" + `** must be a base64 data URL (` + "`" + `data:<mime>;base64,<payload>` + "`" + `).
   Validate it with the ` + "`" + `attach_media` + "`" + ` tool before creating the memory.
   Supported MIME prefixes: image/, audio/, video/. Maximum 5 MB decoded.
   An empty string is never stored; omit the field instead.
5. **Authorship is implicit.** The journal stamps the current user's id and
   name onto every memory and comment; never supply author fields yourself.
6. **Likes and comments start empty.** They are added later through the
   ` + "`" + `add_comment` + "`" + ` tool and the like toggle; do not include them at creation.
7. **Tags** are plain lowercase words. Any language is fine, including Korean.

## Example

` + "```" + `json
{
  "title": "First snow with grandma",
  "content": "We watched the first snow of the year from the porch. Grandma told the story of the winter of 1987 again.",
  "date": "2025-01-20",
  "type": "image",
  "tags": ["winter", "grandma"],
  "mediaUrl": "data:image/jpeg;base64,/9j/4AAQ..."
}
` + "```" + `
`
