// Package alianz sends compiled mailer documents to the AlianzMail API.
//
// The client posts the document as JSON once per Dispatch, authorised with the
// bearer token from the request's credentials:
//
//	client, err := alianz.New(alianz.Config{}, alianz.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	res, err := req.SetCredentials(token).Dispatch(ctx, client)
//	switch {
//	case errors.Is(err, mailer.ErrTransport):
//	    // no response: DNS, connect, TLS, timeout or cancellation
//	case errors.Is(err, mailer.ErrRejected):
//	    // provider answered with a non-200 status; res.Body holds its response
//	}
//
// The client speaks HTTP/1.1 only, follows at most 10 redirects and gives up
// after 30 seconds unless configured otherwise. TLS certificates are verified
// unless WithInsecureSkipVerify is given.
package alianz
