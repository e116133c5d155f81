package tasks

// promptBudget caps the document text carried into a single prompt, in
// runes. Escalated runs double it.
const promptBudget = 12000

func textBudget(escalated bool) int {
	if escalated {
		return promptBudget * 2
	}
	return promptBudget
}

const summarizeSpec = `Write a structured summary of the document below.

Requirements:
- Cover every major section of the document; do not skip any part.
- Open with a one-sentence statement of what the document is.
- Follow with the key points of each section in document order.
- Close with the most important conclusion or outcome, if any.
- Plain text only. No markdown formatting, no headers, no bullet markers.
- Do not invent information that is not in the document.`

const summarizeHintPreamble = `A prior draft of this summary failed review for the following reason:`

const extractSpec = `Respond with a JSON object matching this exact structure:

{
  "<type>": ["<item1>", "<item2>"]
}

Field constraints:
- One key per requested extraction type, always present even when no items
  were found (use an empty array).
- Every item must appear verbatim in the document text. Never infer,
  normalize, or invent values.
- names: Full names of people exactly as written in the document.
- keywords: The most significant recurring terms or topics, single words or
  short phrases taken from the document.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing.
- When candidate items are listed in the prompt, keep only the candidates
  that are genuinely of the requested type; drop false positives. Do not
  add values that are absent from the document.`

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "category": "<label>",
  "confidence": "high|medium|low",
  "indicators": ["<indicator1>", "<indicator2>"]
}

Field constraints:
- category: Exactly one label from the list given in the prompt. Never
  answer with a label that is not in the list.
- confidence: How certain the evidence is. Use high only when the document
  type is unmistakable.
- indicators: Two to five short phrases from the document that justify the
  chosen category.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing.
- Judge the document by its content and structure, not by its filename.`

const classifyEscalatePreamble = `The first classification pass was inconclusive. Re-evaluate carefully
using the full document context below. Weigh the distinguishing features of
each candidate label before answering.`

const convertSpec = `Convert the document below into a JSON object matching this exact structure:

{
  "title": "<document title>",
  "author": "<author if identifiable, else empty string>",
  "date": "<document date if present, else empty string>",
  "main_content": "<the principal text content>",
  "key_points": ["<point1>", "<point2>"],
  "metadata": { "<any other notable attributes>": "<value>" }
}

Field constraints:
- main_content must never be empty: carry the substantive text of the
  document, condensed if necessary.
- key_points: Three to seven of the most important statements.
- metadata: An object; use {} when nothing notable remains.

Behavioral constraints:
- Respond with exactly one valid JSON object and nothing else.
- No markdown fencing, no commentary before or after the JSON.
- Escape embedded quotes and newlines so the JSON parses.`

const compareSpec = `Two versions of a document were compared mechanically. The verified
changes are listed below with their pair positions. Narrate these changes.

Respond with a JSON object matching this exact structure:

{
  "summary": "<two or three sentences describing how the document changed overall>",
  "changes": [
    { "kind": "added|removed|modified", "position": 0, "description": "<what changed here>" }
  ]
}

Field constraints:
- changes: Describe only pairs from the verified list, identified by their
  given position numbers and kinds. Never describe a change that is not in
  the list.
- description: One sentence on the substance of the change at that position.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing.
- Cover the most significant changes first.`
