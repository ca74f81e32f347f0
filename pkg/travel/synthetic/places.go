package synthetic

// POI mirrors the record shape of the attractions actor
type POI struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Rating      string `json:"rating"`
	Reviews     int    `json:"reviews"`
	Description string `json:"description"`
}

var curatedPOIs = []struct {
	place place
	pois  []POI
}{
	{paris, []POI{
		{"Eiffel Tower", "attraction", "Paris, France", "4.5", 140253, "Iconic symbol of Paris with panoramic city views from observation decks. Pre-booking tickets recommended to avoid long lines."},
		{"Louvre Museum", "attraction", "Paris, France", "4.7", 98742, "World's largest art museum housing the Mona Lisa and Venus de Milo. Allow at least half a day for the highlights."},
		{"Notre-Dame Cathedral", "attraction", "Paris, France", "4.5", 85631, "Gothic masterpiece on the Île de la Cité, reopened after restoration following the 2019 fire."},
		{"Le Jules Verne", "restaurant", "Paris, France", "4.6", 3452, "Upscale restaurant on the second floor of the Eiffel Tower serving contemporary French cuisine."},
		{"Seine River Cruise", "activity", "Paris, France", "4.4", 42158, "Boat tour along the Seine past the city's landmarks. Evening cruises show the illuminated monuments and bridges."},
	}},
	{tokyo, []POI{
		{"Tokyo Skytree", "attraction", "Tokyo, Japan", "4.5", 25678, "Tallest tower in Japan with panoramic observation decks and shopping at its base."},
		{"Sensō-ji Temple", "attraction", "Tokyo, Japan", "4.6", 38742, "Tokyo's oldest temple in Asakusa, entered through the Kaminarimon gate and the Nakamise shopping street."},
		{"Tsukiji Outer Market", "attraction", "Tokyo, Japan", "4.4", 15987, "Market streets full of seafood stalls and small restaurants. Best visited for breakfast."},
		{"Sushi Dai", "restaurant", "Tokyo, Japan", "4.8", 3254, "Renowned sushi counter known for its omakase course. Expect a queue."},
		{"teamLab Borderless", "activity", "Tokyo, Japan", "4.7", 12345, "Immersive digital art museum where exhibits move between rooms and react to visitors."},
	}},
	{berlin, []POI{
		{"Brandenburg Gate", "attraction", "Berlin, Germany", "4.7", 45321, "18th-century neoclassical monument and symbol of German unity."},
		{"Reichstag Building", "attraction", "Berlin, Germany", "4.6", 35689, "Parliament building with a glass dome and city views. Free, advance registration required."},
		{"Berlin Wall Memorial", "attraction", "Berlin, Germany", "4.8", 28975, "Open-air exhibit along the former border strip preserving a section of the Wall."},
		{"Museum Island", "attraction", "Berlin, Germany", "4.7", 24310, "Five world-class museums on an island in the Spree, including the Pergamon and Neues Museum."},
		{"Curry 36", "restaurant", "Berlin, Germany", "4.3", 8012, "Classic Kreuzberg snack stand for currywurst and fries."},
	}},
	{yosemite, []POI{
		{"Yosemite Valley", "attraction", "Yosemite National Park, CA", "4.9", 30412, "Glacier-carved valley with views of El Capitan, Half Dome and Yosemite Falls. Shuttle buses run through the valley floor."},
		{"Glacier Point", "attraction", "Yosemite National Park, CA", "4.9", 12876, "Overlook 3,200 feet above the valley with a direct view of Half Dome. The road is closed in winter."},
		{"Mariposa Grove of Giant Sequoias", "attraction", "Yosemite National Park, CA", "4.8", 9654, "Grove of more than 500 mature giant sequoias near the south entrance, including the Grizzly Giant."},
		{"Mist Trail", "activity", "Yosemite National Park, CA", "4.8", 7781, "Steep granite-stair hike past Vernal and Nevada Falls. Expect spray in spring."},
		{"The Ahwahnee Dining Room", "restaurant", "Yosemite National Park, CA", "4.4", 3120, "Grand dining hall in the historic Ahwahnee hotel. Reservations recommended for dinner."},
	}},
}

func curatedPOIsFor(location string) ([]POI, bool) {
	for _, c := range curatedPOIs {
		if c.place.matches(location, "") {
			return c.pois, true
		}
	}
	return nil, false
}

// Route is a simplified directions result
type Route struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Mode        string   `json:"travelMode"`
	Distance    string   `json:"distance"`
	Duration    string   `json:"duration"`
	Summary     string   `json:"summary"`
	Steps       []string `json:"steps"`
	Alternative string   `json:"alternative,omitempty"`
}

var curatedRoutes = []struct {
	origin      place
	destination place
	route       Route
}{
	{sanFrancisco, yosemite, Route{
		Origin:      "San Francisco, CA",
		Destination: "Yosemite Valley, CA",
		Mode:        "DRIVING",
		Distance:    "190 mi",
		Duration:    "4 h",
		Summary:     "I-580 E and CA-120 E through Oakdale and Groveland",
		Steps: []string{
			"Take the Bay Bridge (I-80 E) toward Oakland",
			"Merge onto I-580 E toward Stockton",
			"Continue onto I-205 E, then CA-120 E toward Manteca and Oakdale",
			"Follow CA-120 E through Groveland to the Big Oak Flat entrance",
			"Continue on Big Oak Flat Rd into Yosemite Valley",
		},
		Alternative: "Amtrak San Joaquins to Merced, then the YARTS bus along CA-140 into the valley (about 5 h 30 min total).",
	}},
}

func curatedRouteFor(origin, destination string) (Route, bool) {
	for _, r := range curatedRoutes {
		if r.origin.matches(origin, "") && r.destination.matches(destination, "") {
			return r.route, true
		}
	}
	return Route{}, false
}
