package http

// Flash messages shown to the user. Texts with a %s verb take the email
// address the user typed, after suffix normalisation where the flow does it.
const (
	msgLoggedIn          = "Logged in successfully."
	msgLoggedOut         = "You have been logged out."
	msgInvalidEmail      = "Invalid email. Please try again."
	msgInvalidPassword   = "Invalid password. Please try again."
	msgUnknownLoginEmail = `The email "%s" is not stored in our database.`
	msgIncorrectPassword = "Incorrect password. Please try again."
	msgLoginRequired     = "Please log in to access this page."

	msgSignupEmailRequired = "Please enter your school username."
	msgSignupEmailInvalid  = "Enter only the part of your school email before the @."
	msgSignupPassword      = "Please choose a password."
	msgSignupName          = "Please enter your first and last name."
	msgSignupGrade         = "Please pick a grade between 1 and 12."
	msgSignupEmailTaken    = `The email "%s" already has an account. Try logging in or resetting your password.`

	msgResetEmailRequired = "You didn't enter anything! Please enter an email."
	msgResetUnknownEmail  = "The email address '%s' isn't in our database. Try again, and this time make sure you entered the email correctly. Alternatively, sign up for an account."
	msgResetSent          = "Password Reset. Email sent successfully to '%s'."
	msgResetNotSent       = "Uh oh! Looks like we couldn't send that email. Are you sure you entered the email address correctly?"
	msgResetSpecificError = "Specific error: %s"

	msgInvalidSubject      = "Invalid subject selected. Please leave page source alone."
	msgBlankElaboration    = "Somehow, a blank issue type elaboration bypassed client-side validation :( Please leave page source and JS alone."
	msgInvalidIssue        = "Somehow, an invalid issue type bypassed client-side validation :( Please leave page source and JS alone."
	msgEmptyTitle          = "Somehow, an empty title bypassed client-side validation :( Please leave page source and JS alone."
	msgBlankBody           = "Somehow, a blank body bypassed client-side validation :( Please leave page source and JS alone."
	msgRequestCreated      = "Successfully requested help"
	msgProfileUpdated      = "Your profile has been updated."
	msgNoClearance         = "You don't have the proper clearance to see this webpage."
	msgRoleChanged         = "Changed the role of %s to %s."
	msgInvalidRole         = "That role does not exist."
	msgUnknownUser         = "That user does not exist."
	msgInternalServerError = "Something went wrong on our side. Please try again."
)
