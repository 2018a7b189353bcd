// README: User-facing reply text for every conversation branch.
package conversation

const (
	replyWelcome = "Welcome to Ride-Hailing App! Please enter your full name:"
	replyAskRole = "Thanks, %s! Are you registering as a driver or a passenger?"
	replyBadRole = "Please reply 'driver' or 'passenger'."

	replyAskContact = "Got it. Please enter an emergency contact number:"
	replyRegistered = "You're all set! Send 'HELP' for a list of available commands."

	replyHelp = "Available commands:\n" +
		"- EDIT PROFILE\n" +
		"- BOOK RIDE\n" +
		"- RIDE STATUS\n" +
		"- CANCEL RIDE\n" +
		"- HELP"
	replyUnknownCommand = "Send 'HELP' for a list of available commands."

	replyBookRide         = "Please share your current location using WhatsApp's location feature."
	replyRideActive       = "You already have a ride in progress. Send 'RIDE STATUS' for updates."
	replySharePickup      = "Please share your current location using the location feature."
	replyPickupReceived   = "Location received. Please share your destination location."
	replyShareDestination = "Please share your destination location using the location feature."
	replyAskRideType      = "Destination received. What type of ride would you like? (Economy, Premium)"
	replyBadRideType      = "Invalid ride type. Please choose 'Economy' or 'Premium'."
	replyRideConfirmed    = "Your %s ride is confirmed!\n" +
		"Driver: %s\n" +
		"Car: %s\n" +
		"ETA: %d minutes\n" +
		"Fare Estimate: %s\n" +
		"You'll receive updates as your driver approaches."

	replyRideStatus      = "Your driver is on the way! ETA: %d minutes."
	replyNoOngoingRides  = "You have no ongoing rides."
	replyRideCanceled    = "Your ride has been canceled."
	replyNothingToCancel = "You have no rides to cancel."

	replyEditingProfile = "You're now in profile editing mode.\n" +
		"Send 'UPDATE NAME', 'UPDATE CONTACT', or 'CANCEL' to exit."
	replyBadEditCommand = "Invalid command. Send 'UPDATE NAME', 'UPDATE CONTACT', or 'CANCEL'."
	replyEditCanceled   = "Profile editing canceled. How can we assist you today?"
	replyAskNewName     = "Please enter your new full name:"
	replyAskNewContact  = "Please enter your new emergency contact number:"
	replyNameUpdated    = "Your name has been updated to %s."
	replyContactUpdated = "Your emergency contact has been updated."
	replyBadContact     = "That doesn't look like a phone number. Enter 10-15 digits, optionally starting with '+'."

	replyProcessingError = "An error occurred while processing your request. Please try again."
)
