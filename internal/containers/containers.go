// Package containers holds the page controllers. Each controller gets its
// collaborators injected: the store client, the session, a Navigate callback
// for page changes, and an Alert callback for user-facing warnings. The HTTP
// layer builds one controller per request and wires the callbacks to the
// response.
package containers

// Route paths the controllers navigate between.
const (
	PathBills   = "/bills"
	PathNewBill = "/bills/new"
)

// Navigate switches the user to another page.
type Navigate func(pathname string)

// Alert surfaces a blocking warning to the user.
type Alert func(message string)
