package assist

import "fmt"

const (
	greetingUnavailable = "Sorry, I couldn't come up with an idea right now. Please try writing your own wonderful message!"
	scriptUnavailable   = "Could not generate a script suggestion."
	noteUnavailable     = "Could not generate an admin note suggestion."
	scriptFailed        = "Sorry, I couldn't generate script suggestions right now."
)

func greetingPrompt(occasion, recipient string) string {
	return fmt.Sprintf("Generate a few short, cheerful ideas for a greeting for %s on their %s. "+
		"Be creative and uplifting. Give 2-3 distinct options if possible, each under 50 words. "+
		"Reply in the language the occasion is written in.", recipient, occasion)
}

func adminPrompt(occasion, recipient, fanMessage string) string {
	return fmt.Sprintf(`I am a celebrity handling a video greeting request.
The request is for: %s.
Occasion: %s.
Fan message: "%s".

Please help me with the following:
1. Generate 2-3 concise, enthusiastic ideas for the video script I could record (each under 60 words).
2. Suggest a short internal admin note for this request (under 30 words).

Format your answer clearly, separating the script ideas from the admin note. For example:
SCRIPT IDEAS:
- Idea 1...
- Idea 2...
ADMIN NOTE:
- Note...`, recipient, occasion, fanMessage)
}

func imagePrompt(prompt string) string {
	return fmt.Sprintf("Visual concept for a greeting: %s. Cheerful, festive style.", prompt)
}

func cannedGreeting(occasion, recipient string) string {
	if isBirthday(occasion) {
		return FormatIdeas(fmt.Sprintf("- Happy birthday to the amazing %s! I hope your day is full of joy and laughter. "+
			"Consider mentioning a shared memory or a special quality.\n"+
			"- May this new year of life bring you lots of happiness, %s.", recipient, recipient))
	}
	return FormatIdeas(fmt.Sprintf("- Thinking of you on this special %s! I hope it is a wonderful moment for %s. "+
		"Personalise it with a specific wish or thought!\n"+
		"- Congratulations on your %s, %s!", occasion, recipient, occasion, recipient))
}

func cannedAdminSuggestions(occasion, recipient, fanMessage string) AdminSuggestions {
	return AdminSuggestions{
		Script: FormatIdeas(fmt.Sprintf("- Hi %s, happy %s! I just wanted to send you a special greeting. %s...\n"+
			"- So excited to celebrate your %s with you, %s!", recipient, occasion, truncateRunes(fanMessage, 50), occasion, recipient)),
		Note: fmt.Sprintf("Review request for %s (%s). Looks standard. Consider adding a personal touch based on the fan's message.",
			recipient, occasion),
	}
}
