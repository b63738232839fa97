// Package fallback answers travel questions from fixed rule tables when the
// language model is unavailable. Everything here is pure and deterministic.
package fallback

import (
	"strings"

	"travelchat/internal/domain"
)

// Rule maps a predicate over the lowercased message to a canned reply.
type Rule struct {
	Name     string
	Match    func(lower string) bool
	Response string
}

// SuggestionRule maps a predicate to four follow-up prompts.
type SuggestionRule struct {
	Name        string
	Match       func(lower string) bool
	Suggestions [4]string
}

// DefaultResponse is returned when no response rule matches.
const DefaultResponse = "🇮🇳 Welcome to AtithiVerse! I'm here to help you discover Incredible India. Whether you're interested in iconic monuments, pristine beaches, royal palaces, or spiritual journeys, I can create the perfect itinerary for you! What type of experience are you looking for?"

// DefaultSuggestions are offered when nothing more specific applies.
var DefaultSuggestions = [4]string{
	"Popular destinations",
	"Best time to visit India",
	"Budget travel tips",
	"Plan my trip",
}

// anyOf matches when any phrase occurs as a substring.
func anyOf(phrases ...string) func(string) bool {
	return func(lower string) bool {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
}

// anyWord matches when any word appears as a whole token.
func anyWord(words ...string) func(string) bool {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(lower string) bool {
		for _, tok := range strings.FieldsFunc(lower, notLetter) {
			if _, ok := set[tok]; ok {
				return true
			}
		}
		return false
	}
}

func notLetter(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
}

var responseRules = []Rule{
	{
		Name:     "greeting",
		Match:    anyWord("hello", "hi", "hey", "namaste"),
		Response: "👋 Namaste! I'm AtithiBot, your travel assistant for Incredible India! Ask me about destinations, costs or the best time to travel. How can I help you today?",
	},
	{
		Name:     "taj",
		Match:    anyOf("taj mahal", "agra"),
		Response: "🏛️ The Taj Mahal is absolutely breathtaking! Visit early morning (6 AM) for the best experience and fewer crowds. Entry is ₹500 for Indians, ₹1100 for foreigners. Best photographed during sunrise or sunset. The monument is closed on Fridays. Would you like help planning your Agra itinerary?",
	},
	{
		Name:     "goa",
		Match:    anyOf("goa", "beach"),
		Response: "🏖️ Goa is perfect year-round, but November-March offers the best weather! Popular beaches: Baga & Calangute (lively), Palolem & Arambol (peaceful). Budget: ₹2,000-4,000/day, Luxury: ₹8,000+/day. Try water sports, beach shacks, and vibrant nightlife! Which type of Goa experience interests you?",
	},
	{
		Name:     "kerala",
		Match:    anyOf("kerala", "backwater"),
		Response: "🌴 Kerala's backwaters are magical! Alleppey & Kumarakom offer the best houseboat experiences. Costs: ₹3,000-12,000/night depending on luxury level. Best time: October-March. Don't miss: Ayurvedic spa treatments, toddy tapping, and traditional Kerala meals. Planning a romantic getaway or family trip?",
	},
	{
		Name:     "rajasthan",
		Match:    anyOf("rajasthan", "jaipur", "udaipur", "palace"),
		Response: "🏰 Rajasthan is a royal treat! Jaipur (Pink City), Udaipur (City of Lakes) and Jodhpur (Blue City) are the highlights. Palace hotels from ₹5,000-50,000/night. Best time: October-March. Must-do: camel safari, folk performances, heritage walks. Interested in luxury palace stays or budget heritage tours?",
	},
	{
		Name:     "himalaya",
		Match:    anyOf("himalaya", "trek", "manali", "shimla"),
		Response: "🏔️ The Himalayas are an adventurer's dream! Manali, Shimla and Rishikesh offer treks, river rafting and mountain camps from about ₹2,500/person. Best time: April-June and September-October. Acclimatise before high-altitude treks and pack warm layers. Are you after a gentle hike or a serious trek?",
	},
	{
		Name:     "budget",
		Match:    anyOf("budget", "cheap", "affordable", "cost"),
		Response: "💰 India is incredibly budget-friendly! Daily costs:\n• Hostels: ₹500-1,500\n• Local food: ₹200-800\n• Local transport: ₹100-500\n• Attractions: ₹50-500\n\nTotal: ₹1,500-3,000/day for comfortable budget travel. Street food, local trains, and budget hotels offer authentic experiences! What's your daily budget range?",
	},
	{
		Name:     "plan",
		Match:    anyOf("plan", "trip", "itinerary"),
		Response: "✈️ I can help plan your trip! Just tell me your interests, duration, and budget, and I'll suggest destinations you can book directly on AtithiVerse. Where would you like to start?",
	},
	{
		Name:     "season",
		Match:    anyOf("best time", "when", "weather"),
		Response: "🌤️ India's diverse climate offers year-round travel!\n• Oct-Mar: Pleasant weather, peak season\n• Apr-Jun: Hot, perfect for hill stations\n• Jul-Sep: Monsoon, lush landscapes in Kerala/Western Ghats\n\nEach season has its charm! Which region interests you most?",
	},
}

var suggestionRules = []SuggestionRule{
	{
		Name:        "taj",
		Match:       anyOf("taj mahal", "agra"),
		Suggestions: [4]string{"Best time to visit Taj Mahal", "Agra itinerary for 2 days", "Hotels near Taj Mahal", "Book Taj Mahal tour"},
	},
	{
		Name:        "goa",
		Match:       anyOf("goa", "beach"),
		Suggestions: [4]string{"Best beaches in Goa", "Goa nightlife guide", "Water sports in Goa", "Book Goa package"},
	},
	{
		Name:        "kerala",
		Match:       anyOf("kerala", "backwater"),
		Suggestions: [4]string{"Kerala houseboat prices", "Best time for Kerala backwaters", "Ayurvedic retreats in Kerala", "Book Kerala package"},
	},
	{
		Name:        "rajasthan",
		Match:       anyOf("rajasthan", "jaipur", "udaipur", "palace"),
		Suggestions: [4]string{"Rajasthan itinerary for a week", "Palace hotels in Udaipur", "Jaipur sightseeing guide", "Book Rajasthan tour"},
	},
	{
		Name:        "budget",
		Match:       anyOf("budget", "cheap", "affordable", "cost"),
		Suggestions: [4]string{"Budget India itinerary", "Cheap places to stay", "Free attractions in India", "Budget food options"},
	},
	{
		Name:        "plan",
		Match:       anyOf("plan", "trip", "itinerary"),
		Suggestions: [4]string{"Popular destinations", "7-day India itinerary", "Best time to visit India", "Budget travel tips"},
	},
}

// ResponseRules returns the response rules in priority order.
func ResponseRules() []Rule {
	out := make([]Rule, len(responseRules))
	copy(out, responseRules)
	return out
}

// SuggestionRules returns the suggestion rules in priority order.
func SuggestionRules() []SuggestionRule {
	out := make([]SuggestionRule, len(suggestionRules))
	copy(out, suggestionRules)
	return out
}

// Respond returns the reply of the first matching response rule, or
// DefaultResponse.
func Respond(input string) string {
	_, resp := Match(input)
	return resp
}

// Match is Respond that also names the rule that fired ("default" if none).
func Match(input string) (name, response string) {
	lower := strings.ToLower(input)
	for _, r := range responseRules {
		if r.Match(lower) {
			return r.Name, r.Response
		}
	}
	return "default", DefaultResponse
}

// Suggest returns exactly four follow-up prompts for input. When no rule
// matches, prompts are derived from the top retrieved document if any.
func Suggest(input string, matched []domain.ScoredDocument) []string {
	lower := strings.ToLower(input)
	for _, r := range suggestionRules {
		if r.Match(lower) {
			return r.Suggestions[:]
		}
	}
	if len(matched) > 0 && strings.TrimSpace(matched[0].Document.Name) != "" {
		name := strings.TrimSpace(matched[0].Document.Name)
		return []string{
			"Best time to visit " + name,
			"How much does " + name + " cost?",
			"Travel tips for " + name,
			"Book " + name,
		}
	}
	out := DefaultSuggestions
	return out[:]
}
