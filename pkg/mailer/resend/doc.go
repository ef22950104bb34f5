// Package resend dispatches compiled mailer documents through the Resend API.
//
// It is an alternative to the alianz transport for the same Request:
//
//	d, err := resend.New(resend.Config{Tags: map[string]string{"app": "billing"}})
//	if err != nil {
//	    return err
//	}
//	res, err := req.SetCredentials(os.Getenv("RESEND_API_KEY")).Dispatch(ctx, d)
//
// Each messenger becomes its own email. Dispatch times are interpreted as UTC
// and sent as Resend scheduled_at values.
package resend
