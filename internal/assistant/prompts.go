package assistant

import "fmt"

const breakdownInstruction = "You are an executive function assistant. Your goal is to lower the barrier to entry for complex tasks."

const chatInstruction = "You are a supportive, calm and logical assistant for a project engineer with ADHD. " +
	"Keep answers concise. Use bullet points. Avoid walls of text. Encourage the user gently."

// buildBreakdownPrompt asks for 5-10 small steps of 15-60 minutes each
func buildBreakdownPrompt(title, description string) string {
	return fmt.Sprintf(`I am a project engineer with ADHD. I have a large, intimidating task: %q.
Context: %s

Break this down into 5-10 very small, actionable, non-intimidating steps.
Each step should take between 15 and 60 minutes.
Return a JSON array of objects with "title" (string) and "estimatedMinutes" (integer).`, title, description)
}

// buildOrganizePrompt asks for prioritized tasks pulled out of free text
func buildOrganizePrompt(dump string) string {
	return fmt.Sprintf(`Here is a chaotic brain dump from a project engineer:
%q

Extract the actionable tasks from this text.
Assign each a priority (Low, Medium, High, Critical) based on the urgency implied.
Return a JSON array of objects with "title", "priority" and "description".`, dump)
}
