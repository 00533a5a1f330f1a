package mcpserver

// JournalFormatContract describes the journal file format that LLM
// consumers should follow when reading or adding entries.
const JournalFormatContract = `# Daybook Journal Format

A journal is ONE Markdown file. Days are sections headed by their date.

## Structure

` + "```" + `markdown
# 2026/01/10
- [ ] Call Bob @01/20 #work
- [x] Ship release #work
- Standup moved to 10:00
* Team lunch

# 2026/01/12
- [ ] Review PR #review @tomorrow
` + "```" + `

## Rules

1. **Day headers** are ` + "`" + `# YYYY/MM/DD` + "`" + ` on a line of their own. Sections are kept in
   ascending date order.
2. **Entry markers** are exact, most specific first:
   ` + "`" + `- [ ] ` + "`" + ` open task, ` + "`" + `- [x] ` + "`" + ` done task, ` + "`" + `* ` + "`" + ` event, ` + "`" + `- ` + "`" + ` note.
   Any other line is kept verbatim and never rewritten.
3. **Tags** are ` + "`" + `#` + "`" + ` followed by a letter, then letters, digits, ` + "`" + `_` + "`" + ` or ` + "`" + `-` + "`" + `.
   Tags match without regard to case.
4. **Dates** are ` + "`" + `@` + "`" + ` followed by a date expression:
   ` + "`" + `@MM/DD` + "`" + `, ` + "`" + `@MM/DD/YY` + "`" + `, ` + "`" + `@today` + "`" + `, ` + "`" + `@tomorrow` + "`" + `, ` + "`" + `@yesterday` + "`" + `, weekdays
   (` + "`" + `@mon` + "`" + `..` + "`" + `@sun` + "`" + `), relative days (` + "`" + `@d3` + "`" + `), or recurrences
   (` + "`" + `@every-15` + "`" + `, ` + "`" + `@every-mon` + "`" + `). Relative dates are rewritten to ` + "`" + `@MM/DD` + "`" + `
   when an entry is saved.
5. **Later entries**: an entry dated for another day also shows on that day. It
   stays stored under the day it was written. Recurring entries show on every
   matching day after it.
6. **Encoding** is UTF-8, lines joined by ` + "`" + `\n` + "`" + `.

## Filter queries

Tokens are combined with AND, except free words which match any.

- ` + "`" + `!tasks` + "`" + ` open tasks, ` + "`" + `!tasks/done` + "`" + ` done tasks, ` + "`" + `!tasks/all` + "`" + `, ` + "`" + `!notes` + "`" + `, ` + "`" + `!events` + "`" + `
- ` + "`" + `#tag` + "`" + ` required tag, ` + "`" + `not:#tag` + "`" + ` excluded tag, ` + "`" + `not:!notes` + "`" + `, ` + "`" + `not:word` + "`" + `
- ` + "`" + `@before:DATE` + "`" + `, ` + "`" + `@after:DATE` + "`" + `, ` + "`" + `@overdue` + "`" + `
- ` + "`" + `$name` + "`" + ` expands a saved filter
`
