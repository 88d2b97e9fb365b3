package i18n

// english is the built-in message catalog. Keys follow the ldapauth-*
// naming of the message files this catalog replaces.
var english = map[string]string{ //nolint:gochecknoglobals
	"error-unknown": "An unknown error occurred during authentication.",

	"ldapauth-attempt-bind-search":    "Attempting anonymous bind for search on domain $domain.",
	"ldapauth-attempt-bind-dn-search": "Attempting bind as $dn for search.",
	"ldapauth-bind-success":           "Successfully bound to the directory server.",
	"ldapauth-no-bind-search":         "Could not anonymously bind to server $server.",
	"ldapauth-no-bind-dn-search":      "Could not bind as $dn to server $server.",
	"ldapauth-no-connect":             "Could not connect to any directory server for domain $domain.",
	"ldapauth-bind-dn":                "Binding as $username against $server ($enc).",
	"wrongpassword":                   "Incorrect username or password entered. Please try again.",
	"ldapauth-no-base":                "No search base is configured for domain $domain.",
	"password-login-forbidden":        "The supplied credentials may not be used to log in.",

	"noemail":                     "No email address found for $user.",
	"ldapauth-nodomain":           "No originating domain found for $user.",
	"ldapauth-fetch-data":         "Fetching directory data for $user.",
	"ldapauth-no-user-by-email":   "No directory user found by email $email.",
	"ldapauth-ran-search":         "Ran directory search $search in $runtime.",
	"ldapauth-add-to-group":       "Adding $user to group $group.",
	"ldapauth-delete-from-group":  "Removing $user from group $group.",
	"ldapauth-chain-unsupported":  "Nested group resolution for Active Directory domains is not supported.",
	"ldapauth-not-supported":      "This operation is not supported by the directory authentication provider.",
	"ldapauth-create-not-allowed": "Account can not be created.",
}
