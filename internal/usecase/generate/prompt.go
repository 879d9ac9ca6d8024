package generate

import "fmt"

// systemPrompt sets the register for every generation.
const systemPrompt = "You are a helpful assistant specialized in creating documents " +
	"compliant with New Zealand healthcare standards and terminology. " +
	"Your tone should be formal, concise, and medically appropriate."

// ragPrompt builds the user prompt when retrieval produced context.
func ragPrompt(contentType, topic, context string) string {
	return fmt.Sprintf(`Generate a %s about the following topic: %q

Use the following context from internal documents as your primary source:
--- CONTEXT START ---
%s
--- CONTEXT END ---

If the context is insufficient or irrelevant to the topic, state that you are generating the content based on your general knowledge while maintaining the NZ healthcare style, but mention that internal document context was not applicable.
Generate only the %s content based on the topic and context provided.`,
		contentType, topic, context, contentType)
}

// fallbackPrompt builds the user prompt when no relevant chunks exist.
func fallbackPrompt(contentType, topic string) string {
	return fmt.Sprintf(`Generate a %s about the following topic: %q

Generate only the %s content based on the topic provided. Rely on your general knowledge of healthcare best practices, adapted for a New Zealand context where possible.`,
		contentType, topic, contentType)
}
