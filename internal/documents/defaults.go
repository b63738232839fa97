package documents

import "travelchat/internal/domain"

// Defaults returns the built-in corpus used when no document file is available.
func Defaults() []domain.TravelDocument {
	return []domain.TravelDocument{
		{
			Name:        "Taj Mahal",
			Location:    "Agra, Uttar Pradesh",
			Description: "UNESCO World Heritage white marble mausoleum and symbol of love, built by Shah Jahan.",
			Price:       "₹500 for Indians, ₹1100 for foreigners",
			BestTime:    "October to March, at sunrise",
			Tips:        "Closed on Fridays. Arrive at 6 AM to avoid crowds and visit Agra Fort nearby.",
		},
		{
			Name:        "Goa Beaches",
			Location:    "Goa",
			Description: "Beautiful beaches with water sports, beach shacks and vibrant nightlife. Baga and Calangute are lively, Palolem and Arambol are peaceful.",
			Price:       "₹350 per person; ₹2,000-4,000 per day on a budget",
			BestTime:    "November to March",
			Tips:        "North Goa is for parties, South Goa is for relaxing.",
		},
		{
			Name:        "Jaipur City Palace",
			Location:    "Jaipur, Rajasthan",
			Description: "Royal heritage palace complex and museum in the Pink City.",
			Price:       "₹400 per person",
			BestTime:    "October to March",
			Tips:        "Combine with Amber Fort and Hawa Mahal; evening cultural shows are worth it.",
		},
		{
			Name:        "Kerala Backwaters",
			Location:    "Alleppey and Kumarakom, Kerala",
			Description: "Houseboat cruises through palm-lined lagoons in God's Own Country.",
			Price:       "₹1,200 per person; houseboats ₹3,000-12,000 per night",
			BestTime:    "October to March",
			Tips:        "Try an Ayurvedic spa treatment and a traditional Kerala meal on the boat.",
		},
		{
			Name:        "Himalayan Adventures",
			Location:    "Himachal Pradesh and Uttarakhand",
			Description: "Treks, river rafting and mountain camps around Manali, Shimla and Rishikesh.",
			Price:       "₹2,500 per person",
			BestTime:    "April to June and September to October",
			Tips:        "Acclimatise for a day before high-altitude treks and carry warm layers.",
		},
		{
			Name:        "Udaipur Lake Palace",
			Location:    "Udaipur, Rajasthan",
			Description: "Luxury heritage hotel floating on Lake Pichola in the City of Lakes.",
			Price:       "₹15,000 per person",
			BestTime:    "September to March",
			Tips:        "Take a sunset boat ride on Lake Pichola and book palace dinners early.",
		},
	}
}
