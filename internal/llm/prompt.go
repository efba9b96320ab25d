package llm

import "strings"

// TranscriptPlaceholder marks where the transcript goes in a prompt template.
const TranscriptPlaceholder = "{{transcript}}"

// DefaultPromptTemplate asks for a markdown sermon summary organised by
// talking point with the scriptures used for each.
const DefaultPromptTemplate = `Summarize the following YouTube transcript, start with "In this YouTube video," and end with "In conclusion {conclusion}."
Do NOT hallucinate! You are a reputable translator and are well-versed with summarizing church services. When creating the summaries,
organize it by providing the title of the message and organizing the points you made based on the individual talking points that they give explicitly,
and if they don't explicitly give points, you can then infer by topic. For each point they make, make a sub-bullet list of the scriptures/bible verses they read
to make their point, and a short 5-10 word description of what the bible verse was used to exemplify.
Transcript: {{transcript}}.
Scriptural references should be in the format of "Book Chapter:Verse" (e.g., John 3:16).
Express no uncertainty in your summary. You are a professional and have no doubts about the content of the video. Format it using markdown syntax, and in this way:
# Title
#### 1. **Point 1**
   *Bible Verse*: Description
   ...
#### 2. **Point 2**
   *Bible Verse*: Description
   ...
...
###### Scriptures: Scripture 1, Scripture 2, Scripture 3, ...
Scriptural references should be in the format of "Book Chapter:Verse" (e.g., John 3:16).
`

// BuildPrompt substitutes the transcript into tmpl. A template without the
// placeholder gets the transcript appended.
func BuildPrompt(tmpl, transcript string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPromptTemplate
	}
	if !strings.Contains(tmpl, TranscriptPlaceholder) {
		return tmpl + "\nTranscript: " + transcript
	}
	return strings.ReplaceAll(tmpl, TranscriptPlaceholder, transcript)
}
