// Package prompts holds the canned UI phrases: loading lines while the
// model thinks, nudges for an empty chat, and soft error messages.
package prompts

import (
	"math/rand"
	"unicode/utf16"
)

// LoadingMessages show while an analysis or reply is in flight.
var LoadingMessages = []string{
	"Consulting the stars... ✨",
	"Listening to the ripples of your day... 🌊",
	"Weaving your thoughts into a story... 🧶",
	"Finding the calm in the chaos... 🍃",
	"Analyzing the vibes... 🤖",
	"Taking a deep breath... 🧘",
}

// EmptyChatPrompts nudge the user when there is nothing to show yet.
var EmptyChatPrompts = []string{
	"Talk to me...pleasee?",
	"What's on your mind today?",
	"A quiet mind is a powerful mind.",
	"Unburden your thoughts here.",
	"I'm listening. How are you really?",
	"Every journey begins with a single word.",
	"Have you been putting something off?",
	"Chat about it before bed?",
	"What did you learn today?",
	"Capture the moment before it fades.",
	"Was today a mountain or a valley?",
	"Write it down, let it go.",
}

// ErrorMessages soften network and API failures.
var ErrorMessages = []string{
	"The clouds are thick today. Try again later. ☁️",
	"I couldn't catch that. One more time?",
	"The connection is a bit wobbly. 😵‍💫",
	"Silence is also an answer... but retrying helps.",
}

// Random picks uniformly. Good for one-shot loading screens.
func Random(pool []string) string {
	return pool[rand.Intn(len(pool))]
}

// Stable picks deterministically by seed key, so the phrase shown for a
// given journal day never flickers between renders.
func Stable(pool []string, seedKey string) string {
	var hash int32
	for _, cu := range utf16.Encode([]rune(seedKey)) {
		hash = int32(cu) + ((hash << 5) - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return pool[int(hash)%len(pool)]
}
