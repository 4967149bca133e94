package ingestion

import "github.com/voyago/voyago-go/internal/rag"

// SampleDocuments returns the built-in starter corpus: three city guides and
// two general travel-tips documents. Useful for demos and for smoke-testing a
// fresh deployment before real content is ingested.
func SampleDocuments() []rag.Document {
	return []rag.Document{
		{
			Content: "Paris, the City of Light, is one of the most beautiful and romantic cities in the world. " +
				"The Eiffel Tower, standing at 324 meters tall, is the most iconic symbol of Paris. Visitors can climb " +
				"to the top for breathtaking views of the city. The Louvre Museum houses the famous Mona Lisa and thousands " +
				"of other masterpieces. The Champs-Élysées is a famous avenue lined with luxury shops and restaurants. " +
				"Notre-Dame Cathedral, despite the 2019 fire, remains a stunning example of Gothic architecture. " +
				"The Seine River runs through the heart of Paris, and boat tours offer a unique perspective of the city. " +
				"French cuisine is world-renowned, with croissants, baguettes, and fine dining experiences available throughout the city.",
			Source:      "sample_paris_guide.txt",
			Title:       "Paris Travel Guide",
			Destination: "Paris",
			Category:    "city_guide",
		},
		{
			Content: "Tokyo, Japan's bustling capital, is a fascinating blend of ultramodern and traditional. " +
				"The city is known for its cutting-edge technology, fashion, and cuisine. Shibuya Crossing is the world's " +
				"busiest pedestrian crossing, symbolizing Tokyo's energy. The Tokyo Skytree offers panoramic views of the " +
				"sprawling metropolis. Traditional temples like Senso-ji in Asakusa provide a glimpse into Japan's rich history. " +
				"Akihabara is a paradise for electronics and anime enthusiasts. The Tsukiji Outer Market is famous for fresh " +
				"seafood and sushi. Tokyo's efficient public transportation system makes it easy to explore different districts. " +
				"The city's food scene ranges from Michelin-starred restaurants to humble ramen shops.",
			Source:      "sample_tokyo_guide.txt",
			Title:       "Tokyo Travel Guide",
			Destination: "Tokyo",
			Category:    "city_guide",
		},
		{
			Content: "New York City, the Big Apple, is a global center of culture, finance, and entertainment. " +
				"Times Square is the heart of Manhattan, known for its bright lights and Broadway theaters. Central Park " +
				"offers 843 acres of green space in the middle of the concrete jungle. The Statue of Liberty stands as a " +
				"symbol of freedom and welcomes visitors to New York Harbor. The Empire State Building provides spectacular " +
				"views of the city skyline. Broadway shows offer world-class entertainment, while museums like the Metropolitan " +
				"Museum of Art and the Museum of Modern Art showcase incredible collections. NYC's diverse neighborhoods, " +
				"from Chinatown to Little Italy, offer authentic cultural experiences and cuisine.",
			Source:      "sample_nyc_guide.txt",
			Title:       "New York City Travel Guide",
			Destination: "New York",
			Category:    "city_guide",
		},
		{
			Content: "Budget travel tips for exploring the world on a shoestring: Stay in hostels or use " +
				"accommodation sharing platforms like Airbnb and Couchsurfing. Cook your own meals instead of eating out " +
				"every day. Use public transportation instead of taxis. Travel during off-peak seasons for lower prices. " +
				"Look for free activities like walking tours, museums with free admission days, and public parks. " +
				"Book flights and accommodation in advance for better deals. Consider traveling to less touristy destinations " +
				"where prices are lower. Use travel apps to find the best deals on flights, accommodation, and activities. " +
				"Pack light to avoid checked baggage fees. Learn basic phrases in the local language to avoid tourist traps.",
			Source:      "sample_budget_tips.txt",
			Title:       "Budget Travel Tips",
			Destination: "general",
			Category:    "travel_tips",
		},
		{
			Content: "Solo travel is an incredible way to discover yourself and the world. Safety should always " +
				"be a priority - research your destination thoroughly and stay in well-lit, populated areas. Hostels are " +
				"great for meeting other travelers and finding travel companions. Keep important documents and money in a " +
				"secure location, preferably a money belt or hidden pouch. Learn basic phrases in the local language to " +
				"navigate more easily. Trust your instincts and don't be afraid to say no to uncomfortable situations. " +
				"Take plenty of photos and keep a travel journal to document your experiences. Solo travel allows for " +
				"complete freedom in your itinerary and the opportunity to step out of your comfort zone.",
			Source:      "sample_solo_travel.txt",
			Title:       "Solo Travel Guide",
			Destination: "general",
			Category:    "travel_tips",
		},
	}
}
