package constant

const (
	WelcomeMessage = "Welcome to Trip-Assistant! 🌍✈️\n\nI can help you plan your trips. Ask me about flights, things to do, or places to visit. When you're ready for a summary of your trip, just type /summary."

	GenericErrorMessage = "I encountered an error while processing your request. Please try again."
	SummaryErrorMessage = "I couldn't generate your trip summary. Please try asking a few questions about your destination first."
	CallUsageMessage    = "Please provide a phone number to call. Example: /call +14158667151"
	CallErrorMessage    = "I encountered an error while processing your call request. Please try again."

	ThinkingStatus = "🤔 Thinking..."
)

// AssistantSystemPrompt takes the current date, e.g. "October 15, 2026"
const AssistantSystemPrompt = `You are a helpful Trip Assistant bot that helps users plan their travel.
You can look up flights between cities, attractions and restaurants at a destination, directions and transportation options, general travel information, translations, and you can phone businesses to make reservations when the user explicitly asks for a booking.

Be concise and helpful. Always provide clear, actionable travel advice.
Never claim a reservation was made unless the tool output confirms it.

The current date is %s.`

// ToolReplyPrompt takes the user message, the tool output, the structured
// query JSON and a data notice line.
const ToolReplyPrompt = `Based on this user question: "%s"

And this tool response:
"%s"

Structured data about the query:
%s
%s
Create a helpful, conversational response. Include the most relevant information from the tool output but make it sound natural and conversational. If the tool returned structured data, format it in a readable way.

If the query was about traveling to Yosemite, be sure to mention transportation options from nearby cities if relevant.`

// SyntheticNotice is appended to the reply prompt when the data was not
// fetched live.
const SyntheticNotice = `
Note: live providers were unavailable, so this data is %s rather than live. Tell the user the details are illustrative and should be verified before booking.
`

// ChatFallbackPrompt takes the user message and the structured query JSON
const ChatFallbackPrompt = `User message: %s

Structured data about the message:
%s`

const ReservationSystemPrompt = "You are a helpful assistant that creates structured JSON data."

// ReservationStructuringPrompt takes the user message and the user's name
const ReservationStructuringPrompt = `Based on this request: "%s"

Create a JSON structure for making a reservation with these fields:
- service_type: "restaurant", "hotel", "attraction", "travel_agent" or "other"
- service_name: Name of the business
- phone_number: Phone number with country code
- user_name: The name for the reservation (use "%s" if the request does not say)
- reservation_details: an object with date, time (if applicable), num_people, special_requests and duration where given

Use an empty string for anything the request does not mention. Return ONLY the JSON without explanation.`
