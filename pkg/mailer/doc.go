// Package mailer builds send requests for the AlianzMail API.
//
// A send request is a tree of plain objects compiled into one JSON document:
//
//   - Request: sender, reply-to, subject, schedule and body for the whole send
//   - Messenger: a named group of recipients with optional subject/schedule overrides
//   - Recipient: an address classified as direct (to), cc or bcc
//   - Body: the HTML part and its plain-text alternative
//
// Delivery is delegated to a Dispatcher. The alianz subpackage talks to the
// AlianzMail HTTP endpoint; the resend subpackage fans the same document out
// to Resend.
//
// # Usage
//
//	req := mailer.NewRequest().
//		SetFrom("team@example.com", "Team").
//		SetSubject("Welcome").
//		SetBody("<p>Hello!</p>").
//		SetAlt("Hello!").
//		SetCredentials(os.Getenv("ALIANZMAIL_TOKEN"))
//
//	group := mailer.NewMessenger("customers")
//	if err := group.AddDirects(
//		mailer.RecipientRecord{Email: "alice@example.com", Name: "Alice"},
//		mailer.RecipientRecord{Email: "audit@example.com", Type: mailer.ClassBCC},
//	); err != nil {
//		return err
//	}
//	req.AddMessenger(group)
//
//	res, err := req.Dispatch(ctx, alianz.New(alianz.Config{}))
//
// # Recipient classes
//
// Every recipient operation is parameterised by a Class. ClassAll selects all
// three lists for queries, removal and clearing. Named helpers such as AddCC,
// DropBCC or ClearAll are thin wrappers over Add, Remove and Clear.
//
// Bulk adds let each entry carry its own class (RecipientRecord.Type or the
// class of a *Recipient), falling back to the class of the call. AddMany is
// all-or-nothing; AddManyBestEffort keeps the good entries and reports the rest.
//
// # Compilation
//
// Compile is a pure projection of the current state and may be called any
// number of times. It fails with an error wrapping ErrValidation when the HTML
// body or sender is missing, when there are no messengers, or when a messenger
// ends up without a subject. An empty text part is derived from the HTML.
//
// # Errors
//
//   - ErrValidation (and its children): input problems found before any network call
//   - ErrUnauthorized: no usable bearer token
//   - ErrTransport: no HTTP response was obtained
//   - ErrRejected / *RejectedError: the provider answered with a failure status
package mailer
