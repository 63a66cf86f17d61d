package stubs

import "soulfix/internal/models"

// Candidates is the built-in sample pool used to seed the mock backend when
// local storage is empty.
var Candidates = []models.Profile{
	{
		ID: "101", Name: "Alex", Gender: "male", Age: 28,
		Bio: "Adventure seeker 🏔️ | Photographer 📸",
		Photos: []string{
			"https://randomuser.me/api/portraits/men/1.jpg",
			"https://randomuser.me/api/portraits/men/2.jpg",
		},
		Occupation: "Software Engineer", Education: "MIT", Height: "6'0\"", Location: "Seattle, WA",
		Prompts: []models.Prompt{
			{Question: "A fun fact about me", Answer: "I have climbed Mt. Rainier twice!"},
		},
	},
	{
		ID: "102", Name: "Jordan", Gender: "female", Age: 24,
		Bio: "Artist & Music Lover 🎨",
		Photos: []string{
			"https://randomuser.me/api/portraits/women/40.jpg",
			"https://randomuser.me/api/portraits/women/42.jpg",
		},
		Occupation: "Graphic Designer", Education: "RISD", Height: "5'6\"", Location: "Portland, OR",
		Prompts: []models.Prompt{
			{Question: "My happy place", Answer: "Anywhere with a sketchbook and good tunes."},
		},
	},
	{
		ID: "103", Name: "Michael", Gender: "male", Age: 30,
		Bio: "Chef in the making 🍳. Always looking for new recipes.",
		Photos: []string{
			"https://randomuser.me/api/portraits/men/32.jpg",
			"https://randomuser.me/api/portraits/men/33.jpg",
		},
		Occupation: "Sous Chef", Education: "Culinary Institute", Height: "5'10\"", Location: "Chicago, IL",
		Prompts: []models.Prompt{
			{Question: "I'm convinced that", Answer: "Pineapple belongs on pizza."},
		},
	},
	{
		ID: "104", Name: "Priya", Gender: "female", Age: 26,
		Bio: "Yoga instructor and wellness enthusiast 🧘‍♀️",
		Photos: []string{
			"https://randomuser.me/api/portraits/women/20.jpg",
			"https://randomuser.me/api/portraits/women/21.jpg",
		},
		Occupation: "Yoga Teacher", Education: "NYU", Height: "5'4\"", Location: "Austin, TX",
		Prompts: []models.Prompt{
			{Question: "I take pride in", Answer: "My massive plant collection 🌱"},
		},
	},
	{
		ID: "105", Name: "David", Gender: "male", Age: 27,
		Bio: "Tech enthusiast and gamer 🎮",
		Photos: []string{
			"https://randomuser.me/api/portraits/men/45.jpg",
			"https://randomuser.me/api/portraits/men/46.jpg",
		},
		Occupation: "Data Analyst", Education: "Georgia Tech", Height: "5'9\"", Location: "San Jose, CA",
		Prompts: []models.Prompt{
			{Question: "Two truths and a lie", Answer: "I speak 3 languages, I have a twin, I hate chocolate."},
		},
	},
	{
		ID: "106", Name: "Lisa", Gender: "female", Age: 29,
		Bio: "Writer and bookworm 📚. Let's discuss your favorite novel.",
		Photos: []string{
			"https://randomuser.me/api/portraits/women/50.jpg",
			"https://randomuser.me/api/portraits/women/51.jpg",
		},
		Occupation: "Editor", Education: "Columbia", Height: "5'7\"", Location: "Brooklyn, NY",
		Prompts: []models.Prompt{
			{Question: "My simple pleasures", Answer: "Rainy days and chamomile tea."},
		},
	},
	{
		ID: "107", Name: "James", Gender: "male", Age: 32,
		Bio: "Entrepreneur. Building the future 🚀",
		Photos: []string{
			"https://randomuser.me/api/portraits/men/60.jpg",
			"https://randomuser.me/api/portraits/men/61.jpg",
		},
		Occupation: "Founder", Education: "Dropout", Height: "6'1\"", Location: "San Francisco, CA",
		Prompts: []models.Prompt{
			{Question: "I bet you can't", Answer: "Beat me at chess."},
		},
	},
	{
		ID: "108", Name: "Olivia", Gender: "female", Age: 24,
		Bio: "Art enthusiast 🎨 | Gallery Hopper",
		Photos: []string{
			"https://randomuser.me/api/portraits/women/5.jpg",
			"https://randomuser.me/api/portraits/women/6.jpg",
		},
		Occupation: "Artist", Education: "Art Institute", Height: "5'6\"", Location: "New York, NY",
		Prompts: []models.Prompt{
			{Question: "I'm looking for", Answer: "A muse."},
		},
	},
}

// Matches seeds the mock match list with two started conversations.
var Matches = []models.MatchRecord{
	{
		ID: "1", UserID: "1", Name: "Sarah", Gender: "female",
		Photo:       "https://randomuser.me/api/portraits/women/1.jpg",
		LastMessage: "Hey! How are you?", Timestamp: "2m ago", Unread: true,
		Age: 25, Bio: "Love hiking and coffee ☕",
		Occupation: "Product Designer", Education: "Stanford University", Location: "San Francisco, CA",
		Prompts: []models.Prompt{
			{Question: "My simple pleasures", Answer: "Sunday morning coffee and a good book"},
			{Question: "I'm looking for", Answer: "Someone who can make me laugh"},
		},
	},
	{
		ID: "2", UserID: "2", Name: "Emma", Gender: "female",
		Photo:       "https://randomuser.me/api/portraits/women/3.jpg",
		LastMessage: models.GreetingSentinel, Timestamp: models.TimestampNew, Unread: true,
		Age: 23, Bio: "Foodie | Traveler | Dog lover 🐕",
		Occupation: "Marketing Manager", Education: "UCLA", Location: "Los Angeles, CA",
		Prompts: []models.Prompt{
			{Question: "My ideal Sunday", Answer: "Brunch, beach, and good company"},
			{Question: "Green flags I look for", Answer: "Good communication and kindness"},
		},
	},
}
