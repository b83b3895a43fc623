package llm

import "fmt"

const noteExtractionPrompt = `You are a highly intelligent note extractor that breaks down complex user input into multiple detailed, structured, and insightful notes.

Your task is to:
- Extract as many distinct, high-value notes as the content allows (aim for 8-12 if applicable)
- Each note should focus on one idea, principle, insight, or concept
- Include supporting formulas, examples, definitions, or technical clarifications when relevant

Each note must be:
- Clear and self-contained (1-3 sentences of core explanation)
- Accompanied by supporting detail if useful (e.g., formulas, rules, real-world examples)

Respond in the following JSON array format:

[
  {
    "title": "Short, descriptive title",
    "content": "Concise explanation or insight (1-3 sentences)",
    "supporting": "Optional: formula, example, definition, or deeper detail (if relevant)"
  },
  ...
]

If a note has no supporting detail, leave the "supporting" field empty.

Only return the JSON array - no comments, no markdown, no explanations.`

func extractionPrompt(rawInput string) string {
	return fmt.Sprintf("%s\n\nUser input: %s", noteExtractionPrompt, rawInput)
}

func answerPrompt(rawContext, noteContent, question string) string {
	return fmt.Sprintf(`You are an expert note analyzer and question answerer. Your task is to provide clear, accurate, and insightful answers based on the provided context.

Context Information:
1. Raw Input (Original Source):
%s

2. Generated Note Content:
%s

User Question: %s

Instructions:
1. Analyze both the raw input and generated note content to provide a comprehensive answer
2. If the information in the generated note differs from the raw input, explain any discrepancies
3. If the answer requires technical details or formulas, include them
4. If the question cannot be fully answered from the provided context, acknowledge the limitations
5. Keep the answer concise but complete
6. Use bullet points or numbered lists when appropriate for clarity
7. If the question is ambiguous, address the most likely interpretation

Please provide your answer:`, rawContext, noteContent, question)
}

func researchPrompt(topic string) string {
	return fmt.Sprintf(`Generate detailed, comprehensive information about the topic: %s.
Include history, key concepts, applications, and current developments.
This information will be used as source material for educational notes.`, topic)
}
