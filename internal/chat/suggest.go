package chat

import (
	"math/rand"
	"strings"

	"soulfix/internal/models"
)

// Reply pools keyed by the category of the peer's last message.
var suggestionPools = map[string][]string{
	"greeting": {"Hey! How are you?", "Hi there! 👋", "Hello! How is your day?", "Hey! Long time no see.", "Hi! What are you up to?"},
	"question": {"Yes, definitely!", "Not really...", "It depends.", "What do you think?", "Ideally, yes.", "I am not sure yet.", "Tell me your opinion!"},
	"planning": {"Sure, when?", "I am free this weekend.", "Maybe next week?", "Sounds fun!", "Let me check my schedule.", "I would love to!"},
	"reaction": {"That is so cool!", "Haha, no way!", "Wow, really?", "That is interesting.", "Tell me more!", "I had no idea.", "LOL 😂"},
	"flirty":   {"You are cute.", "Stop it 😳", "I bet you are.", "We should meet up.", "Make me! 😉"},
	"general":  {"Tell me more.", "How about you?", "That sounds fun.", "Interesting...", "Nice!", "Why is that?", "Go on..."},
}

var icebreakers = []string{
	"What's the best travel spot you've been to? 🌍",
	"Coffee or Tea? ☕🍵",
	"What's your favorite comfort movie? 🎬",
	"If you could have dinner with anyone, who? 🍽️",
	"Do you believe in aliens? 👽",
	"What's your go-to karaoke song? 🎤",
	"Pineapple on pizza? 🍕",
	"What is the most spontaneous thing you've ever done? 🤪",
	"Dogs or Cats? 🐶🐱",
	"What's your dream job? 💼",
	"If you could teleport anywhere right now, where? 🚀",
	"What is your biggest pet peeve? 😤",
	"Are you a morning person or a night owl? 🦉",
	"What's the last book you read? 📚",
	"Do you have any hidden talents? ✨",
	"What's your idea of a perfect Sunday? ☀️",
	"Beach vacation or Mountain cabin? 🏔️",
	"What's your favorite cuisine? 🍝",
	"If you won the lottery, what's the first thing you'd buy? 💰",
	"Do you believe in ghosts? 👻",
}

// bioHooks are personalized openers triggered by keywords in the peer's
// bio.
var bioHooks = []struct {
	keywords []string
	line     string
}{
	{[]string{"coffee"}, "How do you take your coffee? ☕"},
	{[]string{"hike", "hiking"}, "Been on any good hikes recently? 🥾"},
	{[]string{"travel", "trip"}, "Where is your dream destination? ✈️"},
	{[]string{"food", "cook"}, "What is your favorite dish? 🍝"},
	{[]string{"dog", "pet"}, "Tell me about your pets! 🐾"},
}

// Suggester produces reply suggestions from the peer's last message and
// public profile. It is UI sugar: pure keyword matching over fixed pools,
// deterministic for a given random source.
type Suggester struct {
	rand *rand.Rand
}

func NewSuggester(seed int64) *Suggester {
	return &Suggester{rand: rand.New(rand.NewSource(seed))}
}

// categorize picks the reply pool for the peer's last message. Unmatched
// text falls back to the general pool.
func categorize(text string) []string {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "?") || strings.Contains(t, "what") || strings.Contains(t, "how"):
		return append(append([]string(nil), suggestionPools["question"]...), suggestionPools["general"]...)
	case containsAny(t, "hi", "hello", "hey", "yo"):
		return suggestionPools["greeting"]
	case containsAny(t, "meet", "date", "free", "time"):
		return suggestionPools["planning"]
	case containsAny(t, "wow", "cool", "haha", "lol"):
		return suggestionPools["reaction"]
	case containsAny(t, "cute", "hot", "love"):
		return append(append([]string(nil), suggestionPools["flirty"]...), suggestionPools["reaction"]...)
	default:
		return suggestionPools["general"]
	}
}

// Replies returns 3-4 suggested replies to the peer's last message,
// personalized from their bio when it mentions known interests.
func (g *Suggester) Replies(lastInbound string, peer models.Profile) []string {
	pool := categorize(lastInbound)

	bio := strings.ToLower(peer.Bio)
	var personalized []string
	for _, hook := range bioHooks {
		if containsAny(bio, hook.keywords...) {
			personalized = append(personalized, hook.line)
		}
	}
	if peer.Name != "" {
		first, _, _ := strings.Cut(peer.Name, " ")
		personalized = append(personalized, "Hey "+first+"! 👋")
	}
	if len(personalized) > 0 {
		pool = append(personalized, pool...)
	}

	return g.pick(pool, 4)
}

// Icebreakers returns n random conversation starters for an empty
// conversation.
func (g *Suggester) Icebreakers(n int) []string {
	return g.pick(icebreakers, n)
}

// pick returns up to n elements of pool in shuffled order, leaving pool
// untouched.
func (g *Suggester) pick(pool []string, n int) []string {
	shuffled := append([]string(nil), pool...)
	g.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
